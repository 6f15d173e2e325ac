package importer

import (
	"strings"

	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

// Field is a canonical contact field identifier resolved from a CSV header.
type Field string

const (
	FieldFirstName          Field = "first_name"
	FieldLastName           Field = "last_name"
	FieldEmail              Field = "email"
	FieldPhone              Field = "phone"
	FieldBirthday           Field = "birthday"
	FieldWeddingAnniversary Field = "wedding_anniversary"
	FieldHomePurchaseDate   Field = "home_purchase_date"
	FieldMoveInDate         Field = "move_in_date"
	FieldPropertyAddress    Field = "property_address"
	FieldPropertyCity       Field = "property_city"
	FieldPropertyState      Field = "property_state"
	FieldPropertyZip        Field = "property_zip"
	FieldKid1Name           Field = "kid1_name"
	FieldKid1Birthday       Field = "kid1_birthday"
	FieldKid2Name           Field = "kid2_name"
	FieldKid2Birthday       Field = "kid2_birthday"
	FieldKid3Name           Field = "kid3_name"
	FieldKid3Birthday       Field = "kid3_birthday"
	FieldKid4Name           Field = "kid4_name"
	FieldKid4Birthday       Field = "kid4_birthday"
	FieldNotes              Field = "notes"
)

// columnAliases maps lower-cased header names to canonical fields.
// When multiple raw headers mean the same thing, they all map here.
// Unrecognized headers are dropped, not erred.
var columnAliases = map[string]Field{
	// Identity
	"first_name": FieldFirstName,
	"firstname":  FieldFirstName,
	"first name": FieldFirstName,
	"first":      FieldFirstName,
	"fname":      FieldFirstName,

	"last_name": FieldLastName,
	"lastname":  FieldLastName,
	"last name": FieldLastName,
	"last":      FieldLastName,
	"lname":     FieldLastName,

	"email":         FieldEmail,
	"email address": FieldEmail,
	"email_address": FieldEmail,
	"e-mail":        FieldEmail,

	"phone":        FieldPhone,
	"phone number": FieldPhone,
	"phone_number": FieldPhone,
	"mobile":       FieldPhone,
	"cell":         FieldPhone,

	// Anchor dates
	"birthday":      FieldBirthday,
	"birth date":    FieldBirthday,
	"birth_date":    FieldBirthday,
	"birthdate":     FieldBirthday,
	"dob":           FieldBirthday,
	"date of birth": FieldBirthday,

	"wedding_anniversary": FieldWeddingAnniversary,
	"wedding anniversary": FieldWeddingAnniversary,
	"anniversary":         FieldWeddingAnniversary,
	"wedding date":        FieldWeddingAnniversary,

	"home_purchase_date": FieldHomePurchaseDate,
	"home purchase date": FieldHomePurchaseDate,
	"purchase date":      FieldHomePurchaseDate,
	"purchase_date":      FieldHomePurchaseDate,
	"closing date":       FieldHomePurchaseDate,
	"close date":         FieldHomePurchaseDate,

	"move_in_date": FieldMoveInDate,
	"move in date": FieldMoveInDate,
	"move-in date": FieldMoveInDate,
	"move in":      FieldMoveInDate,

	// Property location
	"property_address": FieldPropertyAddress,
	"property address": FieldPropertyAddress,
	"address":          FieldPropertyAddress,
	"street address":   FieldPropertyAddress,

	"property_city": FieldPropertyCity,
	"property city": FieldPropertyCity,
	"city":          FieldPropertyCity,

	"property_state": FieldPropertyState,
	"property state": FieldPropertyState,
	"state":          FieldPropertyState,

	"property_zip": FieldPropertyZip,
	"property zip": FieldPropertyZip,
	"zip":          FieldPropertyZip,
	"zip code":     FieldPropertyZip,
	"zipcode":      FieldPropertyZip,
	"postal code":  FieldPropertyZip,

	// Children
	"kid1_name":       FieldKid1Name,
	"kid1 name":       FieldKid1Name,
	"child1_name":     FieldKid1Name,
	"child 1 name":    FieldKid1Name,
	"kid1_birthday":   FieldKid1Birthday,
	"kid1 birthday":   FieldKid1Birthday,
	"child1_birthday": FieldKid1Birthday,
	"child 1 birthday": FieldKid1Birthday,

	"kid2_name":       FieldKid2Name,
	"kid2 name":       FieldKid2Name,
	"child2_name":     FieldKid2Name,
	"child 2 name":    FieldKid2Name,
	"kid2_birthday":   FieldKid2Birthday,
	"kid2 birthday":   FieldKid2Birthday,
	"child2_birthday": FieldKid2Birthday,
	"child 2 birthday": FieldKid2Birthday,

	"kid3_name":       FieldKid3Name,
	"kid3 name":       FieldKid3Name,
	"child3_name":     FieldKid3Name,
	"child 3 name":    FieldKid3Name,
	"kid3_birthday":   FieldKid3Birthday,
	"kid3 birthday":   FieldKid3Birthday,
	"child3_birthday": FieldKid3Birthday,
	"child 3 birthday": FieldKid3Birthday,

	"kid4_name":       FieldKid4Name,
	"kid4 name":       FieldKid4Name,
	"child4_name":     FieldKid4Name,
	"child 4 name":    FieldKid4Name,
	"kid4_birthday":   FieldKid4Birthday,
	"kid4 birthday":   FieldKid4Birthday,
	"child4_birthday": FieldKid4Birthday,
	"child 4 birthday": FieldKid4Birthday,

	// Free text
	"notes":    FieldNotes,
	"note":     FieldNotes,
	"comments": FieldNotes,
	"comment":  FieldNotes,
}

// dateFields are the canonical fields whose values are routed through
// NormalizeDate before assignment.
var dateFields = map[Field]bool{
	FieldBirthday:           true,
	FieldWeddingAnniversary: true,
	FieldHomePurchaseDate:   true,
	FieldMoveInDate:         true,
	FieldKid1Birthday:       true,
	FieldKid2Birthday:       true,
	FieldKid3Birthday:       true,
	FieldKid4Birthday:       true,
}

// MapHeader resolves a raw header name to a canonical field.
func MapHeader(header string) (Field, bool) {
	f, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]
	return f, ok
}

// BuildContact assembles a contact from one parsed CSV row. Headers that
// map to no canonical field are ignored; date-typed values that fail to
// normalize leave their field unset. The returned contact has no identity
// or provenance stamped on it yet.
func BuildContact(row Row) *models.Contact {
	contact := &models.Contact{}
	for header, value := range row {
		field, ok := MapHeader(header)
		if !ok {
			continue
		}
		applyField(contact, field, value)
	}
	return contact
}

// applyField assigns one canonical field onto the contact under
// construction.
func applyField(c *models.Contact, field Field, raw string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return
	}

	if dateFields[field] {
		normalized := NormalizeDate(value)
		if normalized == "" {
			return
		}
		switch field {
		case FieldBirthday:
			c.Birthday = &normalized
		case FieldWeddingAnniversary:
			c.WeddingAnniversary = &normalized
		case FieldHomePurchaseDate:
			c.HomePurchaseDate = &normalized
		case FieldMoveInDate:
			c.MoveInDate = &normalized
		case FieldKid1Birthday:
			c.Kid1Birthday = &normalized
		case FieldKid2Birthday:
			c.Kid2Birthday = &normalized
		case FieldKid3Birthday:
			c.Kid3Birthday = &normalized
		case FieldKid4Birthday:
			c.Kid4Birthday = &normalized
		}
		return
	}

	switch field {
	case FieldFirstName:
		c.FirstName = value
	case FieldLastName:
		c.LastName = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	case FieldPropertyAddress:
		c.PropertyAddress = value
	case FieldPropertyCity:
		c.PropertyCity = value
	case FieldPropertyState:
		c.PropertyState = value
	case FieldPropertyZip:
		c.PropertyZip = value
	case FieldKid1Name:
		c.Kid1Name = value
	case FieldKid2Name:
		c.Kid2Name = value
	case FieldKid3Name:
		c.Kid3Name = value
	case FieldKid4Name:
		c.Kid4Name = value
	case FieldNotes:
		c.Notes = value
	}
}

// TemplateHeaders is the canonical header set, in template order, used to
// generate the downloadable CSV template.
var TemplateHeaders = []string{
	"first_name", "last_name", "email", "phone",
	"birthday", "wedding_anniversary", "home_purchase_date", "move_in_date",
	"property_address", "property_city", "property_state", "property_zip",
	"kid1_name", "kid1_birthday", "kid2_name", "kid2_birthday",
	"kid3_name", "kid3_birthday", "kid4_name", "kid4_birthday",
	"notes",
}

package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ramsey-B/fern/pkg/normalizers"
)

const (
	FamilyEmail            = "email"
	FamilyPhone            = "phone"
	FamilyAddress          = "address"
	FamilyDocument         = "document"
	FamilyLoyalty          = "loyalty"
	FamilyPayment          = "payment"
	FamilyEmergencyContact = "emergency_contact"
)

// keySeparator joins the parts of a composite natural key.
const keySeparator = "|"

// Family describes one multi-valued entity family of a profile: where its
// rows live and how an entity is identified within a profile.
type Family struct {
	Name  string
	Table string
	// Key derives the natural key from an entity's data. An empty key means
	// the entity cannot be identified and is never written.
	Key func(data map[string]any) string
}

// Families is the registry of every reconciled family, keyed by name.
var Families = map[string]Family{
	FamilyEmail: {
		Name:  FamilyEmail,
		Table: "traveler_emails",
		Key: func(d map[string]any) string {
			return normalizers.NormalizeEmail(str(d, "address"))
		},
	},
	FamilyPhone: {
		Name:  FamilyPhone,
		Table: "traveler_phones",
		Key: func(d map[string]any) string {
			return normalizers.DigitsOnly(str(d, "number"))
		},
	},
	FamilyAddress: {
		Name:  FamilyAddress,
		Table: "traveler_addresses",
		Key: func(d map[string]any) string {
			return normalizers.Fold(str(d, "line1"))
		},
	},
	FamilyDocument: {
		Name:  FamilyDocument,
		Table: "traveler_documents",
		Key: func(d map[string]any) string {
			number := normalizers.Alphanumeric(str(d, "number"))
			if number == "" {
				return ""
			}
			return composite(normalizers.NormalizeCode(str(d, "type")), number)
		},
	},
	FamilyLoyalty: {
		Name:  FamilyLoyalty,
		Table: "traveler_loyalty_programs",
		Key: func(d map[string]any) string {
			provider := normalizers.NormalizeCode(str(d, "provider_code"))
			member := strings.ToUpper(normalizers.RemoveWhitespace(str(d, "member_number")))
			if provider == "" || member == "" {
				return ""
			}
			return composite(provider, member)
		},
	},
	FamilyPayment: {
		Name:  FamilyPayment,
		Table: "traveler_payment_methods",
		Key: func(d map[string]any) string {
			lastFour := normalizers.DigitsOnly(str(d, "last_four"))
			if lastFour == "" {
				return ""
			}
			return composite(normalizers.NormalizeCode(str(d, "card_type")), lastFour)
		},
	},
	FamilyEmergencyContact: {
		Name:  FamilyEmergencyContact,
		Table: "traveler_emergency_contacts",
		Key: func(d map[string]any) string {
			name := normalizers.Fold(str(d, "name"))
			if name == "" {
				return ""
			}
			return composite(name, normalizers.DigitsOnly(str(d, "phone")))
		},
	},
}

// Lookup returns the registered family for name.
func Lookup(name string) (Family, error) {
	f, ok := Families[name]
	if !ok {
		return Family{}, fmt.Errorf("unknown entity family '%s'", name)
	}
	return f, nil
}

// Entity is one canonical value of a family, flattened to its JSON shape.
type Entity struct {
	Data map[string]any
}

// Entities flattens canonical values (models.Email, models.TravelDocument...)
// into entities through their JSON encoding.
func Entities[T any](items []T) ([]Entity, error) {
	out := make([]Entity, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var data map[string]any
		if err := json.Unmarshal(b, &data); err != nil {
			return nil, err
		}
		out = append(out, Entity{Data: data})
	}
	return out, nil
}

func composite(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

func str(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

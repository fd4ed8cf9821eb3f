package identity

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Attributes are the association attributes a contact fact may carry.
type Attributes struct {
	NameRefNumber string
	NameNumber    string
	NameID        string
	NameAssocID   string
}

func (a Attributes) IsEmpty() bool {
	return blank(a.NameRefNumber) && blank(a.NameNumber) && blank(a.NameID) && blank(a.NameAssocID)
}

// Fact is a contact fact waiting to be attributed to a passenger.
type Fact struct {
	Kind       models.ContactKind
	Value      string
	Type       string
	Address    *models.Address
	Attributes Attributes
}

// Stats counts how facts were attributed by one Attach call.
type Stats struct {
	Explicit int
	Shared   int
	Dropped  int
}

// Resolve decides whether a fact belongs to passenger. A fact without any
// association attributes is implicit-shared and never matches directly.
// nameRefNumber is compared against the passenger's primary identifier, the
// other attributes against their positional counterparts.
func Resolve(attrs Attributes, passenger models.Passenger) (bool, models.AssociationBasis) {
	if attrs.IsEmpty() {
		return false, models.AssociationImplicitShared
	}

	switch {
	case equal(attrs.NameRefNumber, passenger.PrimaryIdentifier()),
		equal(attrs.NameNumber, passenger.NameNumber),
		equal(attrs.NameID, passenger.NameID),
		equal(attrs.NameAssocID, passenger.NameAssocID):
		return true, models.AssociationExplicitMatch
	}
	return false, models.AssociationExplicitMatch
}

type Resolver struct {
	logger ectologger.Logger
}

func NewResolver(logger ectologger.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// AddDirect attaches a fact found nested under the passenger node. Direct
// facts skip matching. Returns false when the passenger already holds the
// same value.
func AddDirect(passenger *models.Passenger, fact Fact) bool {
	return add(passenger, fact, models.AssociationDirect)
}

// Attach attributes reservation level facts to passengers. Direct facts must
// already be attached. Explicit facts go to the first matching passenger in
// document order; facts matching nobody are dropped. Implicit-shared facts
// are then attached to every passenger that does not already hold that
// value, except passengers already holding a fact of the same kind and the
// same non-empty type label.
func (r *Resolver) Attach(ctx context.Context, passengers []models.Passenger, facts []Fact) Stats {
	stats := Stats{}
	var shared []Fact

	for _, fact := range facts {
		if blank(fact.Value) {
			continue
		}
		if fact.Attributes.IsEmpty() {
			shared = append(shared, fact)
			continue
		}

		matched := false
		for i := range passengers {
			if ok, basis := Resolve(fact.Attributes, passengers[i]); ok {
				if add(&passengers[i], fact, basis) {
					stats.Explicit++
				}
				matched = true
				break
			}
		}
		if !matched {
			stats.Dropped++
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"kind":            fact.Kind,
				"name_ref_number": fact.Attributes.NameRefNumber,
				"name_number":     fact.Attributes.NameNumber,
				"name_id":         fact.Attributes.NameID,
				"name_assoc_id":   fact.Attributes.NameAssocID,
			}).Debug("contact fact matches no passenger, dropping")
		}
	}

	for _, fact := range shared {
		for i := range passengers {
			if holdsType(passengers[i], fact) {
				continue
			}
			if add(&passengers[i], fact, models.AssociationImplicitShared) {
				stats.Shared++
			}
		}
	}

	return stats
}

func add(passenger *models.Passenger, fact Fact, basis models.AssociationBasis) bool {
	facts := passenger.Facts(fact.Kind)
	key := normalizers.Fold(fact.Value)
	if key == "" {
		return false
	}
	for _, existing := range *facts {
		if normalizers.Fold(existing.Value) == key {
			return false
		}
	}

	*facts = append(*facts, models.ContactFact{
		Kind:                      fact.Kind,
		Value:                     strings.TrimSpace(fact.Value),
		Type:                      fact.Type,
		AssociationBasis:          basis,
		OwningPassengerIdentifier: passenger.PrimaryIdentifier(),
		Address:                   fact.Address,
	})
	return true
}

func holdsType(passenger models.Passenger, fact Fact) bool {
	if blank(fact.Type) {
		return false
	}
	for _, existing := range *passenger.Facts(fact.Kind) {
		if strings.EqualFold(strings.TrimSpace(existing.Type), strings.TrimSpace(fact.Type)) {
			return true
		}
	}
	return false
}

func equal(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

package identity

import "github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"

// Field names reported when shipping data is incomplete
const (
	FieldName    = "Name"
	FieldAddress = "Address"
	FieldPhone   = "Phone"
)

// ShippingProfile holds the default recipient details of a user
type ShippingProfile struct {
	RealName string
	Phone    string
	Address  string
}

// Clean returns the profile with every field normalized
func (p ShippingProfile) Clean() ShippingProfile {
	return ShippingProfile{
		RealName: shared.CleanText(p.RealName),
		Phone:    shared.CleanText(p.Phone),
		Address:  shared.CleanText(p.Address),
	}
}

// Missing lists the blank fields in Name, Address, Phone order
func (p ShippingProfile) Missing() []string {
	var missing []string
	if shared.CleanText(p.RealName) == "" {
		missing = append(missing, FieldName)
	}
	if shared.CleanText(p.Address) == "" {
		missing = append(missing, FieldAddress)
	}
	if shared.CleanText(p.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	return missing
}

// IsComplete reports whether name, address and phone are all present
func (p ShippingProfile) IsComplete() bool {
	return len(p.Missing()) == 0
}

// FillFrom returns p with each blank field taken from fallback
func (p ShippingProfile) FillFrom(fallback ShippingProfile) ShippingProfile {
	p = p.Clean()
	fallback = fallback.Clean()
	if p.RealName == "" {
		p.RealName = fallback.RealName
	}
	if p.Address == "" {
		p.Address = fallback.Address
	}
	if p.Phone == "" {
		p.Phone = fallback.Phone
	}
	return p
}

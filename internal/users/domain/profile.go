package domain

import "maps"

// Profile carries billing and onboarding attributes the service stores and
// returns but never interprets.
type Profile struct {
	Quantity          *int           `json:"quantity,omitempty"`
	TeamSize          string         `json:"team_size,omitempty"`
	YourRole          string         `json:"your_role,omitempty"`
	DateFormat        string         `json:"date_format,omitempty"`
	PDFIcon           *string        `json:"pdf_icon"`
	StripeCustomerID  *string        `json:"stripe_customer_id"`
	Onboarding        bool           `json:"onboarding"`
	OnboardingWeb     bool           `json:"onboarding_web"`
	IntroVideoClose   *bool          `json:"intro_video_close,omitempty"`
	IsDeactivated     bool           `json:"is_deactivated"`
	IsMarketPlaceUser *bool          `json:"is_market_place_user,omitempty"`
	HasAgreedToTerms  bool           `json:"has_agreed_to_terms"`
	Temp              *bool          `json:"temp,omitempty"`
	Subscription      map[string]any `json:"subscription"`
	SitesID           []string       `json:"sites_id"`
	Addons            []string       `json:"addons"`
	AdminID           string         `json:"admin_id,omitempty"`
}

// DefaultProfile is the profile of a freshly created user.
func DefaultProfile() Profile {
	return Profile{
		OnboardingWeb: true,
		Subscription:  map[string]any{},
		SitesID:       []string{},
		Addons:        []string{},
	}
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
// Quantity arrives as a float so a non-integer can be reported as a
// validation failure instead of a decode failure.
type ProfilePatch struct {
	Quantity          *float64        `json:"quantity,omitempty"`
	TeamSize          *string         `json:"team_size,omitempty"`
	YourRole          *string         `json:"your_role,omitempty"`
	DateFormat        *string         `json:"date_format,omitempty"`
	PDFIcon           *string         `json:"pdf_icon,omitempty"`
	StripeCustomerID  *string         `json:"stripe_customer_id,omitempty"`
	Onboarding        *bool           `json:"onboarding,omitempty"`
	OnboardingWeb     *bool           `json:"onboarding_web,omitempty"`
	IntroVideoClose   *bool           `json:"intro_video_close,omitempty"`
	IsDeactivated     *bool           `json:"is_deactivated,omitempty"`
	IsMarketPlaceUser *bool           `json:"is_market_place_user,omitempty"`
	HasAgreedToTerms  *bool           `json:"has_agreed_to_terms,omitempty"`
	Temp              *bool           `json:"temp,omitempty"`
	Subscription      *map[string]any `json:"subscription,omitempty"`
	SitesID           *[]string       `json:"sites_id,omitempty"`
	Addons            *[]string       `json:"addons,omitempty"`
	AdminID           *string         `json:"admin_id,omitempty"`
}

// Validate reports violations in the patch itself.
func (p ProfilePatch) Validate() error {
	return Validate(ValidateQuantity(p.Quantity))
}

// Apply returns a copy of base with every non-nil patch field set. Call
// Validate first; a fractional quantity is truncated here.
func (p ProfilePatch) Apply(base Profile) Profile {
	out := base
	if p.Quantity != nil {
		q := int(*p.Quantity)
		out.Quantity = &q
	}
	setString(&out.TeamSize, p.TeamSize)
	setString(&out.YourRole, p.YourRole)
	setString(&out.DateFormat, p.DateFormat)
	setString(&out.AdminID, p.AdminID)
	if p.PDFIcon != nil {
		out.PDFIcon = ptr(trimmed(*p.PDFIcon))
	}
	if p.StripeCustomerID != nil {
		out.StripeCustomerID = ptr(trimmed(*p.StripeCustomerID))
	}
	setBool(&out.Onboarding, p.Onboarding)
	setBool(&out.OnboardingWeb, p.OnboardingWeb)
	setBool(&out.IsDeactivated, p.IsDeactivated)
	setBool(&out.HasAgreedToTerms, p.HasAgreedToTerms)
	if p.IntroVideoClose != nil {
		out.IntroVideoClose = ptr(*p.IntroVideoClose)
	}
	if p.IsMarketPlaceUser != nil {
		out.IsMarketPlaceUser = ptr(*p.IsMarketPlaceUser)
	}
	if p.Temp != nil {
		out.Temp = ptr(*p.Temp)
	}
	if p.Subscription != nil {
		out.Subscription = maps.Clone(*p.Subscription)
		if out.Subscription == nil {
			out.Subscription = map[string]any{}
		}
	}
	if p.SitesID != nil {
		out.SitesID = append([]string{}, (*p.SitesID)...)
	}
	if p.Addons != nil {
		out.Addons = append([]string{}, (*p.Addons)...)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = trimmed(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T { return &v }

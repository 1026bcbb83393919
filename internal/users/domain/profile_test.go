package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := domain.DefaultProfile()

	require.False(t, p.Onboarding)
	require.True(t, p.OnboardingWeb)
	require.False(t, p.IsDeactivated)
	require.False(t, p.HasAgreedToTerms)
	require.NotNil(t, p.Subscription)
	require.NotNil(t, p.SitesID)
	require.NotNil(t, p.Addons)
}

func TestProfilePatchApply(t *testing.T) {
	var patch domain.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(`{
		"quantity": 4,
		"team_size": "  10-50 ",
		"onboarding_web": false,
		"subscription": {"plan": "pro"},
		"sites_id": ["s1", "s2"]
	}`), &patch))
	require.NoError(t, patch.Validate())

	base := domain.DefaultProfile()
	base.YourRole = "owner"
	out := patch.Apply(base)

	require.NotNil(t, out.Quantity)
	require.Equal(t, 4, *out.Quantity)
	require.Equal(t, "10-50", out.TeamSize)
	require.Equal(t, "owner", out.YourRole, "absent fields are untouched")
	require.False(t, out.OnboardingWeb)
	require.Equal(t, "pro", out.Subscription["plan"])
	require.Equal(t, []string{"s1", "s2"}, out.SitesID)

	require.True(t, base.OnboardingWeb, "base is not mutated")
	require.Empty(t, base.Subscription)
}

func TestProfilePatchRejectsFractionalQuantity(t *testing.T) {
	var patch domain.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 2.5}`), &patch))

	v := violations(t, patch.Validate())
	require.Equal(t, "quantity", v[0].Field)
}

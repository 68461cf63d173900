package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadgate/leadgate/internal/domain"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(DefaultAliases())
}

func TestPickExactKeyWins(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"email": "exact@x.co", "mail": "alias@x.co"}
	require.Equal(t, "exact@x.co", n.Pick(fm, FieldEmail))
}

func TestPickAliasPriorityOrder(t *testing.T) {
	n := newTestNormalizer()
	// "name" is declared before "fullname" for full_name.
	fm := domain.FieldMap{"fullname": "Second", "name": "First"}
	require.Equal(t, "First", n.Pick(fm, FieldFullName))
}

func TestPickHebrewAliases(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{
		"שם מלא": "דנה לוי",
		"טלפון":  "0501234567",
		"אימייל": "dana@example.co.il",
	}
	require.Equal(t, "דנה לוי", n.Pick(fm, FieldFullName))
	require.Equal(t, "0501234567", n.Pick(fm, FieldPhone))
	require.Equal(t, "dana@example.co.il", n.Pick(fm, FieldEmail))
}

func TestPickNoLabelPlaceholder(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"New field email": "a@b.co"}
	require.Equal(t, "a@b.co", n.Pick(fm, FieldEmail))
}

func TestPickBracketedContainerForm(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"form_fields[phone]": "0523334444"}
	require.Equal(t, "0523334444", n.Pick(fm, FieldPhone))
}

func TestPickSubstringFallback(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"Your Email Address (required)": "a@b.co"}
	require.Equal(t, "a@b.co", n.Pick(fm, FieldEmail))
}

func TestPickSkipsWhitespaceOnlyValues(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"email": "   ", "mail": "real@x.co"}
	require.Equal(t, "real@x.co", n.Pick(fm, FieldEmail))
}

func TestPickTrimsValue(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"phone": "  0501234567 "}
	require.Equal(t, "0501234567", n.Pick(fm, FieldPhone))
}

func TestPickMissingReturnsEmpty(t *testing.T) {
	n := newTestNormalizer()
	require.Equal(t, "", n.Pick(domain.FieldMap{"utm_source": "google"}, FieldEmail))
}

func TestPickIsPureAndDeterministic(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"mail": "a@b.co", "utm_source": "google"}
	before := len(fm)
	for i := 0; i < 10; i++ {
		require.Equal(t, "a@b.co", n.Pick(fm, FieldEmail))
	}
	require.Len(t, fm, before, "Pick must not mutate the map")
}

func TestPickEntryReportsMatchedKey(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"your-phone": "0501234567"}
	key, v, ok := n.PickEntry(fm, FieldPhone)
	require.True(t, ok)
	require.Equal(t, "your-phone", key)
	require.Equal(t, "0501234567", v)
}

func TestClassifyGuessesByShape(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{
		"field_a4c81f2": "dana@example.com",
		"field_9921bd0": "050-123-4567",
		"field_77d01ee": "Dana Levi",
	}
	g := n.ClassifyUnclaimed(fm, map[string]bool{})
	require.Equal(t, "dana@example.com", g.Email)
	require.Equal(t, "050-123-4567", g.Phone)
	require.Equal(t, "Dana Levi", g.FullName)
}

func TestClassifySkipsClaimedKeys(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{"email": "explicit@x.co", "field_1": "other@x.co"}
	g := n.ClassifyUnclaimed(fm, map[string]bool{"email": true})
	require.Equal(t, "other@x.co", g.Email)
}

func TestClassifyRespectsDenylist(t *testing.T) {
	n := newTestNormalizer()
	// Looks like a name, but lives under a denylisted key.
	fm := domain.FieldMap{"utm_campaign_hint": "Summer Sale", "user_agent_x": "Mozilla Firefox"}
	g := n.ClassifyUnclaimed(fm, map[string]bool{})
	require.Empty(t, g.FullName)
}

func TestClassifyNameNeedsAtLeastOneLetter(t *testing.T) {
	n := newTestNormalizer()
	for _, v := range []string{"--", "...", "-.-", "'\"", ". . ."} {
		g := n.ClassifyUnclaimed(domain.FieldMap{"zz": v}, map[string]bool{})
		require.Empty(t, g.FullName, "punctuation-only value %q must not classify as a name", v)
	}

	g := n.ClassifyUnclaimed(domain.FieldMap{"zz": "O'Brien-Levi Jr."}, map[string]bool{})
	require.Equal(t, "O'Brien-Levi Jr.", g.FullName)
}

func TestClassifyRejectsNonMatchingShapes(t *testing.T) {
	n := newTestNormalizer()
	fm := domain.FieldMap{
		"field_1": "1234567",                    // 7 digits: too short for a phone
		"field_2": "1234567890123456",           // 16 digits: too long
		"field_3": "not an email @ all really long sentence with many words here", // not a name
	}
	g := n.ClassifyUnclaimed(fm, map[string]bool{})
	require.Empty(t, g.Email)
	require.Empty(t, g.Phone)
	require.Empty(t, g.FullName)
}

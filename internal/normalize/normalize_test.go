package normalize_test

import (
	"testing"

	"github.com/leighmacdonald/roster-tui/internal/normalize"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{in: "", out: ""},
		{in: "xFRZsniper", out: "xfrzsniper"},
		{in: "İSTANBUL", out: "istanbul"},
		{in: "ISPARTA", out: "isparta"},
		{in: "ılık", out: "ilik"},
		{in: "Ratés", out: "rates"},
		{in: "ŞAHİN ÇÖĞÜ", out: "sahin cogu"},
		{in: "Âşık Îmâ Ûmut Ôzel Êv", out: "asik ima umut ozel ev"},
		{in: "Øyvind Łukasz Straße", out: "oyvind lukasz strasse"},
		{in: "Ǿrnek ǿ Ǣ ǽ", out: "ornek o ae ae"},
		{in: "[PDMD] Kaan", out: "[pdmd] kaan"},
		{in: "1786 | Mert", out: "1786 | mert"},
	}

	for _, testCase := range cases {
		require.Equal(t, testCase.out, normalize.Fold(testCase.in), testCase.in)
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{
		"İIıiŞşĞğÜüÖöÇç",
		"ÂÊÎÔÛâêîôû",
		"Ratés ratés RATÉS",
		"ÆæŒœÞþßẞØøŁłĐđ",
		"Ǿrnek",
		"ǿǢǽ",
		"Ελληνικά Кириллица 日本語",
		"İ combining dot",
		"ZALGO̶ T̷E̸X̵T",
	}

	for _, input := range inputs {
		once := normalize.Fold(input)
		require.Equal(t, once, normalize.Fold(once), input)
	}
}

func TestContains(t *testing.T) {
	require.True(t, normalize.Contains("xFRZsniper", "frz"))
	require.True(t, normalize.Contains("Lunatic İnan", "LUNATIC"))
	require.True(t, normalize.Contains("RATES Emre", "ratés"))
	require.False(t, normalize.Contains("Forza", "frz"))
	require.True(t, normalize.Contains("Ǿrnek Kaan", "Ornek"))
	require.True(t, normalize.Contains("Ǿrnek Kaan", "Ørnek"))
}

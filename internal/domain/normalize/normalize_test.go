package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"BEYOĞLU", "beyoglu"},
		{"İstanbul", "istanbul"},
		{"İSTANBUL", "istanbul"},
		{"Çanakkale", "canakkale"},
		{"ŞANLIURFA", "sanliurfa"},
		{"Gümüşhane", "gumushane"},
		{"  Zonguldak Merkez  ", "zonguldak merkez"},
		{"ığdır", "igdir"},
		{"IĞDIR", "igdir"},
		{"ördek çayı", "ordek cayi"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "Normalize(%q)", c.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"BEYOĞLU", "İstanbul Beyoğlu", "Şırnak", "ÜSKÜDAR", "çekmeköy", "Kahramanmaraş MERKEZ"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", s)
	}
}

func TestNormalizeCaseVariantsCollapse(t *testing.T) {
	variants := []string{"beyoğlu", "BEYOĞLU", "Beyoğlu", "bEyOğLu"}
	for _, v := range variants {
		assert.Equal(t, "beyoglu", Normalize(v))
	}
}

func TestURLSafe(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"BEYOĞLU", "BEYOGLU"},
		{"İstanbul", "Istanbul"},
		{"Şebinkarahisar", "Sebinkarahisar"},
		{"Afyon Karahisar", "Afyon%20Karahisar"},
		{"  Eski   Foça ", "Eski%20Foca"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, URLSafe(c.in), "URLSafe(%q)", c.in)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "beyoglu", FileName("BEYOĞLU"))
	assert.Equal(t, "eski_foca", FileName("Eski Foça"))
	assert.Equal(t, "dogansehir", FileName("DOĞANŞEHİR"))
}

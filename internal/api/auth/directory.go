package auth

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// demoMedics is the built-in demo roster, keyed by login email.
var demoMedics = map[string]models.MedicIdentity{
	"medic1@medlink.demo": {
		ID:            "MED-9921",
		Name:          "Sarah Jenkins",
		Unit:          "Medic 42 / Rescue 1",
		Certification: "Paramedic (FP-C)",
	},
	"medic2@medlink.demo": {
		ID:            "MED-8842",
		Name:          "Alex Rivera",
		Unit:          "Medic 12",
		Certification: "EMT-P",
	},
}

// Directory resolves login emails to medic identities. Any well-formed
// email gets in; unknown addresses receive a synthesized identity so the
// demo never rejects a medic.
type Directory struct {
	now func() time.Time
}

func NewDirectory() *Directory {
	return &Directory{now: time.Now}
}

// Resolve returns the medic identity for an email, synthesizing one for
// addresses not on the demo roster.
func (d *Directory) Resolve(email string) models.MedicIdentity {
	email = strings.ToLower(strings.TrimSpace(email))
	if m, ok := demoMedics[email]; ok {
		return m
	}
	return models.MedicIdentity{
		ID:            d.synthesizeID(),
		Name:          nameFromEmail(email),
		Unit:          "Field Unit",
		Certification: "Paramedic",
	}
}

// synthesizeID derives a short id from the current time, base36 encoded.
func (d *Directory) synthesizeID() string {
	enc := strconv.FormatInt(d.now().UnixMilli(), 36)
	if len(enc) > 4 {
		enc = enc[len(enc)-4:]
	}
	return "MED-" + strings.ToUpper(enc)
}

// nameFromEmail turns the local part into a display name: dots and
// underscores become spaces and each word is title-cased.
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	words := strings.Fields(local)
	if len(words) == 0 {
		return "Field Medic"
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

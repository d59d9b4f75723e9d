package types

// MaskingProfile is a closed set of obfuscation variants for a credential.
// A profile changes the connection parameters (TLS fingerprint, ALPN, host
// header) the client presents, without changing the credential's identity.
type MaskingProfile string

const (
	MaskingProfilePrimary  MaskingProfile = "primary"
	MaskingProfileNetflix  MaskingProfile = "netflix"
	MaskingProfileYoutube  MaskingProfile = "youtube"
	MaskingProfileWhatsapp MaskingProfile = "whatsapp"
)

// MaskingProfiles lists every profile in presentation order, primary first.
func MaskingProfiles() []MaskingProfile {
	return []MaskingProfile{
		MaskingProfilePrimary,
		MaskingProfileNetflix,
		MaskingProfileYoutube,
		MaskingProfileWhatsapp,
	}
}

func (p MaskingProfile) Validate() bool {
	switch p {
	case MaskingProfilePrimary, MaskingProfileNetflix, MaskingProfileYoutube, MaskingProfileWhatsapp:
		return true
	}
	return false
}

// ServiceName is the human readable name appended to the credential label
// for masked variants, e.g. `user42@example.com - Netflix`.
func (p MaskingProfile) ServiceName() string {
	switch p {
	case MaskingProfileNetflix:
		return "Netflix"
	case MaskingProfileYoutube:
		return "YouTube"
	case MaskingProfileWhatsapp:
		return "WhatsApp"
	default:
		return ""
	}
}

// Fingerprint returns the TLS client fingerprint the profile imitates.
// Empty for the primary profile which presents no fp parameter at all.
func (p MaskingProfile) Fingerprint() string {
	if p == MaskingProfilePrimary {
		return ""
	}
	return "chrome"
}

// ALPN returns the application protocol list advertised by the profile,
// empty when the parameter should be omitted.
func (p MaskingProfile) ALPN() string {
	if p == MaskingProfilePrimary {
		return ""
	}
	return "h2,http/1.1"
}

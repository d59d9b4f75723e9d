// Package vless builds VLESS connection URIs and the per-user obfuscation
// material embedded in them. The encoding is client-facing wire format and
// must stay byte-compatible with existing importers (V2RayNG, Shadowrocket).
package vless

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/waterdropvpn/starcore/internal/types"
)

// pathHashLen is the number of hex characters of the md5 digest kept for
// the per-user WebSocket path segment.
const pathHashLen = 10

// Link describes everything needed to render a connection URI.
type Link struct {
	UUID  string
	Host  string
	Path  string
	Label string
}

// GenerateIdentity returns a fresh random client identity for a credential.
func GenerateIdentity() string {
	return uuid.NewString()
}

// NewPathSalt returns a random salt for a single path derivation.
func NewPathSalt() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("vless: reading random salt: %v", err))
	}
	return hex.EncodeToString(buf)
}

// GeneratePath derives the WebSocket obfuscation path for a user. The salt
// is minted per issuance, so a reissued credential never collides with a
// still-active prior path while old clients drain. Derivation stays
// deterministic over (externalID, salt).
func GeneratePath(basePath string, externalID int64, salt string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d%s", externalID, salt)))
	return basePath + hex.EncodeToString(sum[:])[:pathHashLen]
}

// Label builds the credential label: the bare email for the primary
// profile, `<email> - <ServiceName>` for masked variants.
func Label(email string, profile types.MaskingProfile) string {
	if name := profile.ServiceName(); name != "" {
		return email + " - " + name
	}
	return email
}

// Build renders the connection URI for one masking profile:
//
//	vless://<uuid>@<host>:443?encryption=none&flow=&security=tls&type=ws&path=<p>&host=<h>&sni=<h>[&fp=chrome][&alpn=h2,http/1.1]#<label>
//
// The path and the fragment label are independently percent-encoded. Query
// parameter order is fixed, including the empty flow parameter; clients
// parse these strings positionally often enough that reordering breaks
// imports.
func Build(l Link, profile types.MaskingProfile) string {
	var b strings.Builder
	b.WriteString("vless://")
	b.WriteString(l.UUID)
	b.WriteString("@")
	b.WriteString(l.Host)
	b.WriteString(":443?")
	b.WriteString("encryption=none")
	b.WriteString("&flow=")
	b.WriteString("&security=tls")
	b.WriteString("&type=ws")
	b.WriteString("&path=")
	b.WriteString(escape(l.Path, ""))
	b.WriteString("&host=")
	b.WriteString(l.Host)
	b.WriteString("&sni=")
	b.WriteString(l.Host)
	if fp := profile.Fingerprint(); fp != "" {
		b.WriteString("&fp=")
		b.WriteString(fp)
	}
	if alpn := profile.ALPN(); alpn != "" {
		b.WriteString("&alpn=")
		b.WriteString(alpn)
	}
	b.WriteString("#")
	b.WriteString(escape(Label(l.Label, profile), "/"))
	return b.String()
}

// BuildAll renders one URI per masking profile, primary first.
func BuildAll(l Link) map[types.MaskingProfile]string {
	links := make(map[types.MaskingProfile]string, len(types.MaskingProfiles()))
	for _, p := range types.MaskingProfiles() {
		links[p] = Build(l, p)
	}
	return links
}

// escape percent-encodes every byte except RFC 3986 unreserved characters
// and the extra safe set. The path is encoded with an empty safe set so its
// slashes become %2F, matching what deployed clients were issued with.
func escape(s string, safe string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

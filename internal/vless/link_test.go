package vless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/waterdropvpn/starcore/internal/types"
)

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("/vless/", 123456789, "salt")

	assert.Len(t, path, len("/vless/")+10)
	assert.Equal(t, "/vless/", path[:7])

	// Derivation is deterministic over (externalID, salt) only.
	assert.Equal(t, path, GeneratePath("/vless/", 123456789, "salt"))
	assert.NotEqual(t, path, GeneratePath("/vless/", 123456789, "othersalt"))
	assert.NotEqual(t, path, GeneratePath("/vless/", 987654321, "salt"))
}

func TestNewPathSaltUnique(t *testing.T) {
	s1 := NewPathSalt()
	s2 := NewPathSalt()

	assert.Len(t, s1, 16)
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t,
		GeneratePath("/vless/", 123456789, s1),
		GeneratePath("/vless/", 123456789, s2))
}

func TestGenerateIdentityUnique(t *testing.T) {
	assert.NotEqual(t, GenerateIdentity(), GenerateIdentity())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "user42@example.com", Label("user42@example.com", types.MaskingProfilePrimary))
	assert.Equal(t, "user42@example.com - Netflix", Label("user42@example.com", types.MaskingProfileNetflix))
	assert.Equal(t, "user42@example.com - YouTube", Label("user42@example.com", types.MaskingProfileYoutube))
	assert.Equal(t, "user42@example.com - WhatsApp", Label("user42@example.com", types.MaskingProfileWhatsapp))
}

func TestBuildPrimary(t *testing.T) {
	l := Link{
		UUID:  "3c7a2f6e-1111-2222-3333-444455556666",
		Host:  "vpn.example.com",
		Path:  "/vless/0a1b2c3d4e",
		Label: "user42@example.com",
	}

	uri := Build(l, types.MaskingProfilePrimary)

	assert.Equal(t,
		"vless://3c7a2f6e-1111-2222-3333-444455556666@vpn.example.com:443?"+
			"encryption=none&flow=&security=tls&type=ws"+
			"&path=%2Fvless%2F0a1b2c3d4e"+
			"&host=vpn.example.com&sni=vpn.example.com"+
			"#user42%40example.com",
		uri)
}

func TestBuildMasked(t *testing.T) {
	l := Link{
		UUID:  "3c7a2f6e-1111-2222-3333-444455556666",
		Host:  "vpn.example.com",
		Path:  "/vless/0a1b2c3d4e",
		Label: "user42@example.com",
	}

	uri := Build(l, types.MaskingProfileNetflix)

	assert.Equal(t,
		"vless://3c7a2f6e-1111-2222-3333-444455556666@vpn.example.com:443?"+
			"encryption=none&flow=&security=tls&type=ws"+
			"&path=%2Fvless%2F0a1b2c3d4e"+
			"&host=vpn.example.com&sni=vpn.example.com"+
			"&fp=chrome&alpn=h2,http/1.1"+
			"#user42%40example.com%20-%20Netflix",
		uri)
}

func TestBuildAll(t *testing.T) {
	l := Link{
		UUID:  "3c7a2f6e-1111-2222-3333-444455556666",
		Host:  "vpn.example.com",
		Path:  "/vless/0a1b2c3d4e",
		Label: "user42@example.com",
	}

	links := BuildAll(l)
	assert.Len(t, links, 4)
	for _, p := range types.MaskingProfiles() {
		assert.Contains(t, links, p)
		assert.Contains(t, links[p], "vless://")
	}
	assert.NotContains(t, links[types.MaskingProfilePrimary], "fp=")
	assert.Contains(t, links[types.MaskingProfileYoutube], "YouTube")
}

func TestEscapeKeepsSafeCharacters(t *testing.T) {
	// The fragment keeps slashes; the path does not.
	assert.Equal(t, "a%2Fb", escape("a/b", ""))
	assert.Equal(t, "a/b", escape("a/b", "/"))
	assert.Equal(t, "user%40host", escape("user@host", "/"))
	assert.Equal(t, "a-b_c.d~e", escape("a-b_c.d~e", ""))
	assert.Equal(t, "%20", escape(" ", ""))
}

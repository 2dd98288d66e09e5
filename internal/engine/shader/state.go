package shader

// StateBits packs blend, depth, polygon and alpha-test state for one draw.
type StateBits uint32

const (
	SrcBlendZero             StateBits = 0x00000001
	SrcBlendOne              StateBits = 0x00000002
	SrcBlendDstColor         StateBits = 0x00000003
	SrcBlendOneMinusDstColor StateBits = 0x00000004
	SrcBlendSrcAlpha         StateBits = 0x00000005
	SrcBlendOneMinusSrcAlpha StateBits = 0x00000006
	SrcBlendDstAlpha         StateBits = 0x00000007
	SrcBlendOneMinusDstAlpha StateBits = 0x00000008
	SrcBlendAlphaSaturate    StateBits = 0x00000009
	SrcBlendBits             StateBits = 0x0000000f

	DstBlendZero             StateBits = 0x00000010
	DstBlendOne              StateBits = 0x00000020
	DstBlendSrcColor         StateBits = 0x00000030
	DstBlendOneMinusSrcColor StateBits = 0x00000040
	DstBlendSrcAlpha         StateBits = 0x00000050
	DstBlendOneMinusSrcAlpha StateBits = 0x00000060
	DstBlendDstAlpha         StateBits = 0x00000070
	DstBlendOneMinusDstAlpha StateBits = 0x00000080
	DstBlendBits             StateBits = 0x000000f0

	DepthMaskTrue StateBits = 0x00000100

	PolyModeLine StateBits = 0x00001000

	DepthTestDisable StateBits = 0x00010000
	DepthFuncEqual   StateBits = 0x00020000

	AlphaTestGT0  StateBits = 0x10000000
	AlphaTestLT80 StateBits = 0x20000000
	AlphaTestGE80 StateBits = 0x40000000
	AlphaTestBits StateBits = 0x70000000

	StateDefault = DepthMaskTrue
)

// SrcBlend returns the source blend factor bits.
func (s StateBits) SrcBlend() StateBits { return s & SrcBlendBits }

// DstBlend returns the destination blend factor bits.
func (s StateBits) DstBlend() StateBits { return s & DstBlendBits }

// AlphaTest returns the alpha test bits.
func (s StateBits) AlphaTest() StateBits { return s & AlphaTestBits }

// Has reports whether all bits in flag are set.
func (s StateBits) Has(flag StateBits) bool { return s&flag == flag }

// WithAlphaBlend replaces the blend with src-alpha / one-minus-src-alpha and drops
// depth writes. Used for fading entities.
func (s StateBits) WithAlphaBlend() StateBits {
	s &^= SrcBlendBits | DstBlendBits | DepthMaskTrue
	return s | SrcBlendSrcAlpha | DstBlendOneMinusSrcAlpha
}

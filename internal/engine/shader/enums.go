package shader

import "fmt"

// ColorGen selects how a stage derives per-vertex RGB.
type ColorGen int

const (
	CGenBad ColorGen = iota
	CGenIdentityLighting
	CGenIdentity
	CGenEntity
	CGenOneMinusEntity
	CGenExactVertex
	CGenVertex
	CGenOneMinusVertex
	CGenWaveform
	CGenLightingDiffuse
	CGenFog
	CGenConst
)

// AlphaGen selects how a stage derives per-vertex alpha.
type AlphaGen int

const (
	AGenIdentity AlphaGen = iota
	AGenSkip
	AGenEntity
	AGenOneMinusEntity
	AGenNormalZFade
	AGenVertex
	AGenOneMinusVertex
	AGenLightingSpecular
	AGenWaveform
	AGenPortal
	AGenConst
)

// TCGen selects how a bundle derives texture coordinates.
type TCGen int

const (
	TCGenBad TCGen = iota
	TCGenIdentity
	TCGenLightmap
	TCGenTexture
	TCGenEnvironmentMapped
	TCGenFireRiseEnvMapped
	TCGenFog
	TCGenVector
)

// TexModType identifies a texture coordinate modifier.
type TexModType int

const (
	TModNone TexModType = iota
	TModTransform
	TModTurbulent
	TModScroll
	TModScale
	TModStretch
	TModRotate
	TModEntityTranslate
	TModSwap
)

func (t TexModType) String() string {
	switch t {
	case TModNone:
		return "none"
	case TModTransform:
		return "transform"
	case TModTurbulent:
		return "turb"
	case TModScroll:
		return "scroll"
	case TModScale:
		return "scale"
	case TModStretch:
		return "stretch"
	case TModRotate:
		return "rotate"
	case TModEntityTranslate:
		return "entityTranslate"
	case TModSwap:
		return "swap"
	default:
		return fmt.Sprintf("texmod(%d)", int(t))
	}
}

// AdjustColorsForFog selects how stage colors fade inside a fog volume.
type AdjustColorsForFog int

const (
	ACFFNone AdjustColorsForFog = iota
	ACFFModulateRGB
	ACFFModulateRGBA
	ACFFModulateAlpha
)

// TexEnv is the texture environment used to combine the second bundle of a
// multitexture stage with the first.
type TexEnv int

const (
	TexEnvModulate TexEnv = iota
	TexEnvAdd
	TexEnvReplace
	TexEnvDecal
)

// CullType is the face culling mode of a shader.
type CullType int

const (
	CullFrontSided CullType = iota
	CullBackSided
	CullTwoSided
)

// FogPass selects the blend of the fog post-pass.
type FogPass int

const (
	FogPassNone FogPass = iota
	FogPassEqual
	FogPassLE
)

// DeformType identifies a vertex deformation.
type DeformType int

const (
	DeformNone DeformType = iota
	DeformWave
	DeformNormals
	DeformBulge
	DeformMove
)

// IteratorKind selects the stage iteration strategy used when a surface ends.
type IteratorKind int

const (
	IteratorGeneric IteratorKind = iota
	IteratorVertexLitTexture
	IteratorLightmappedMultitexture
	IteratorSky
)

func (k IteratorKind) String() string {
	switch k {
	case IteratorGeneric:
		return "generic"
	case IteratorVertexLitTexture:
		return "vertexLitTexture"
	case IteratorLightmappedMultitexture:
		return "lightmappedMultitexture"
	case IteratorSky:
		return "sky"
	default:
		return fmt.Sprintf("iterator(%d)", int(k))
	}
}

package bitmask

import (
	"image"

	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
	"github.com/hypnagogic-go/atlascutter/pkg/geom"
)

// InputIcon is a closed tagged union over the two shapes of input data a
// caller may hand to an operation: a flat raster atlas, or an already
// decoded icon container. The core never reads files itself — decoding is
// the caller's job, via pkg/dmi or the standard image package.
type InputIcon interface {
	isInputIcon()
}

// RawImage wraps a decoded raster atlas, the input shape every Slice
// operation expects.
type RawImage struct {
	Image image.Image
}

func (RawImage) isInputIcon() {}

// DecodedIcon wraps an already-decoded icon container, the input shape
// every Reconstruct operation expects.
type DecodedIcon struct {
	Icon *dmi.Icon
}

func (DecodedIcon) isInputIcon() {}

// OutputImage is a closed tagged union over the two raster output shapes
// an operation may produce. Saving to disk is the caller's job.
type OutputImage interface {
	isOutputImage()
}

// PNGImage is a flat raster output, produced by Reconstruct.
type PNGImage struct {
	Image image.Image
}

func (PNGImage) isOutputImage() {}

// DMIImage is a decoded icon container output, produced by Slice.
type DMIImage struct {
	Icon *dmi.Icon
}

func (DMIImage) isOutputImage() {}

// OutputText is a closed tagged union over the two sibling-config text
// shapes an operation may emit alongside an OutputImage. Extension is
// always ".toml".
type OutputText interface {
	isOutputText()
}

// PNGConfig is the config text emitted alongside a PNGImage: a
// BitmaskSlice-shaped config ready to re-cut the reconstructed atlas.
type PNGConfig struct {
	Text string
}

func (PNGConfig) isOutputText() {}

// DMIConfig is the config text emitted alongside a DMIImage.
type DMIConfig struct {
	Text string
}

func (DMIConfig) isOutputText() {}

// NamedIcon pairs one generated icon-container output with the name the
// caller should file it under (used when an operation produces more than
// one logically distinct output, e.g. a debug slice's corner dumps
// alongside its composed icon).
type NamedIcon struct {
	Name  string
	Image OutputImage
}

// ProcessorPayload is a closed tagged union over everything an operation
// can hand back to its caller.
type ProcessorPayload interface {
	isProcessorPayload()
}

// SinglePayload is a bare single output image, no name attached.
type SinglePayload struct {
	Image OutputImage
}

func (SinglePayload) isProcessorPayload() {}

// SingleNamedPayload is a single named output.
type SingleNamedPayload struct {
	Icon NamedIcon
}

func (SingleNamedPayload) isProcessorPayload() {}

// MultipleNamedPayload is a set of named outputs, used when an operation's
// results don't share one container (e.g. a debug slice's per-corner PNG
// dumps plus the composed icon).
type MultipleNamedPayload struct {
	Icons []NamedIcon
}

func (MultipleNamedPayload) isProcessorPayload() {}

// ConfigWrappedPayload wraps an inner payload together with the config
// text that should be written to a sibling path alongside it.
type ConfigWrappedPayload struct {
	Payload ProcessorPayload
	Text    OutputText
}

func (ConfigWrappedPayload) isProcessorPayload() {}

// AnimationConfig describes per-frame delays and whether the animation
// should rewind (ping-pong) rather than loop.
type AnimationConfig struct {
	Delays []float32 `toml:"delays"`
	Rewind bool      `toml:"rewind"`
}

// IconOperationConfig is the resolved, already-template-expanded
// configuration for one operation invocation. Implementations validate
// their own invariants via VerifyConfig and run via PerformOperation;
// template expansion, file I/O, and inheritance are the caller's job.
type IconOperationConfig interface {
	// VerifyConfig checks the configuration's own invariants (e.g. a
	// positions table that covers every CornerType its output_type
	// requires) independent of any input image.
	VerifyConfig() error
	// PerformOperation runs the operation against a decoded input and
	// returns the payload to write out.
	PerformOperation(input InputIcon) (ProcessorPayload, error)
}

// BitmaskSlice is the configuration for the Slice operation: cut a flat
// corner atlas into a multi-state, adjacency-keyed animated icon.
type BitmaskSlice struct {
	// OutputName prefixes every generated icon state, e.g. "wall".
	OutputName string `toml:"output_name"`

	// DirectionStrategy selects how many input directions are read and
	// how many output directions are produced.
	DirectionStrategy DirectionStrategy `toml:"direction_strategy"`

	// IconSize is the pixel dimensions of one input tile.
	IconSize geom.Point `toml:"icon_size"`

	// OutputIconSize is the pixel dimensions of one output (composed)
	// tile; may differ from IconSize when corners are drawn into a
	// larger canvas.
	OutputIconSize geom.Point `toml:"output_icon_size"`

	// OutputIconPos is the origin within an output tile at which prefab
	// tiles are drawn. Composed corners are placed at their cut-point
	// spans and do not use it.
	OutputIconPos geom.Point `toml:"output_icon_pos"`

	// Positions maps each CornerType this configuration's OutputType
	// requires to its column index within a direction block of the
	// input atlas. Dense: every required CornerType must have an entry.
	Positions map[CornerType]int `toml:"positions"`

	// CutPos is the interior point within one input tile that splits it
	// into corner subrects.
	CutPos geom.Point `toml:"cut_pos"`

	// Animation is the optional per-frame delay/rewind configuration.
	// Nil means a single static frame.
	Animation *AnimationConfig `toml:"animation"`

	// Prefabs overrides composed-corner generation for specific
	// adjacencies: rather than compose corners, the column is copied
	// verbatim (image replace, not alpha-overlay).
	Prefabs map[Adjacency]int `toml:"prefabs"`

	// MapIcon, if non-nil, appends one generated text-label frame to the
	// output (see generation.go), used for the map-view icon state.
	MapIcon *MapIconConfig `toml:"map_icon"`

	// OutputType selects which corner set (and therefore which
	// adjacency states) this configuration produces.
	OutputType CornerSet `toml:"output_type"`
}

// MapIconConfig configures the generated map-view overlay frame.
type MapIconConfig struct {
	Text string `toml:"text"`
}

var _ IconOperationConfig = (*BitmaskSlice)(nil)

// VerifyConfig checks that Positions is dense over OutputType's required
// CornerTypes and that OutputIconSize is not smaller than IconSize (an
// all-zero OutputIconSize is accepted). DirectionStrategy is not checked.
func (c *BitmaskSlice) VerifyConfig() error {
	for _, ct := range c.OutputType.CornersUsed() {
		if _, ok := c.Positions[ct]; !ok {
			return &ConfigError{Reason: "missing position for corner type " + ct.String()}
		}
	}
	if c.OutputIconSize.X < c.IconSize.X || c.OutputIconSize.Y < c.IconSize.Y {
		if c.OutputIconSize.X != 0 || c.OutputIconSize.Y != 0 {
			return &ConfigError{Reason: "output_icon_size smaller than icon_size"}
		}
	}
	return nil
}

// BitmaskDirectionalVis is the configuration for the directional-visibility
// variant of Slice: instead of BitmaskSlice's full per-adjacency tiles, it
// emits per-(adjacency, Side) partial-tile states and per-Corner
// inner-corner states, used for tiles whose visibility is masked by
// neighboring opaque tiles.
type BitmaskDirectionalVis struct {
	BitmaskSlice

	// SlicePoint is the per-side split point used to compute each
	// Side's partial-tile spacing rectangle, independent of CutPos.
	SlicePoint map[Side]geom.Point `toml:"slice_point"`

	// MaskColor is not read by PerformOperation: the masked-out portion
	// of a partial-tile state is always left transparent.
	MaskColor *image.Uniform `toml:"-"`
}

var _ IconOperationConfig = (*BitmaskDirectionalVis)(nil)

// VerifyConfig delegates to the embedded BitmaskSlice and additionally
// requires a SlicePoint entry for every Side.
func (c *BitmaskDirectionalVis) VerifyConfig() error {
	if err := c.BitmaskSlice.VerifyConfig(); err != nil {
		return err
	}
	for _, s := range AllSides() {
		if _, ok := c.SlicePoint[s]; !ok {
			return &ConfigError{Reason: "missing slice_point for side " + s.String()}
		}
	}
	return nil
}

// BespokeEntry names one extra icon-state suffix to extract under an
// explicit prefab label.
type BespokeEntry struct {
	Name  string `toml:"name"`
	Label string `toml:"label"`
}

// BitmaskSliceReconstruct is the configuration for the Reconstruct
// operation: the inverse of Slice, flattening a multi-state icon back
// into a corner atlas plus the BitmaskSlice config text that would re-cut
// it.
type BitmaskSliceReconstruct struct {
	// Extract lists icon-state name suffixes (the part after the first
	// hyphen, or the whole name when it has none) to pull into the
	// reconstructed atlas, in column order.
	Extract []string `toml:"extract"`

	// Bespoke lists extra icon-state suffixes to pull in under an
	// explicit prefab label; each label becomes a [prefabs] key whose
	// column is numbered after the Extract columns, in declaration
	// order. A slice, not a map, so declaration order — which
	// becomes output column order in Phase 4 — survives the TOML
	// round-trip; go-toml/v2 decodes a `[[bespoke]]` array-of-tables in
	// file order, unlike a bare table whose key order is not preserved.
	Bespoke []BespokeEntry `toml:"bespoke"`

	// Set holds literal key/value overrides copied verbatim into the
	// emitted config text (e.g. a hand-picked output_name).
	Set map[string]string `toml:"set"`
}

var _ IconOperationConfig = (*BitmaskSliceReconstruct)(nil)

// VerifyConfig requires at least one extraction target.
func (c *BitmaskSliceReconstruct) VerifyConfig() error {
	if len(c.Extract) == 0 {
		return &ConfigError{Reason: "extract list is empty"}
	}
	return nil
}

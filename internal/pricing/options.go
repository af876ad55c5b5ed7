package pricing

import "github.com/printhuis/quoteportal-backend/pkg/enums"

// TechniqueOptions is the tagged union over the three technique option
// shapes. The calculator switches exhaustively on the concrete type, so a
// fourth technique is a compile-visible checklist, not a silent gap.
type TechniqueOptions interface {
	Technique() enums.Technique
}

// ScreenPrintOptions configures a screen print decoration.
type ScreenPrintOptions struct {
	TextileType   enums.TextileType
	ColorCount    int
	PrintSize     string
	LocationCount int
}

// Technique implements TechniqueOptions.
func (ScreenPrintOptions) Technique() enums.Technique {
	return enums.TechniqueScreenPrint
}

// EmbroideryOptions configures an embroidery decoration.
type EmbroideryOptions struct {
	StitchCount   int
	LocationCount int
}

// Technique implements TechniqueOptions.
func (EmbroideryOptions) Technique() enums.Technique {
	return enums.TechniqueEmbroidery
}

// DirectToFilmOptions configures a direct-to-film transfer.
type DirectToFilmOptions struct {
	PrintSize     string
	LocationCount int
}

// Technique implements TechniqueOptions.
func (DirectToFilmOptions) Technique() enums.Technique {
	return enums.TechniqueDirectToFilm
}

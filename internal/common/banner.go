package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the CLI startup banner and logs the resolved
// base directory through arbor.
func PrintBanner(cfg *Config, logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(70)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("RO-CRATE INDEX")
	b.PrintCenteredText("RO-Crate catalog and search engine")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", GetVersion(), 15)
	b.PrintKeyValue("Base dir", cfg.Index.BaseDir, 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", GetVersion()).
		Str("base_dir", cfg.Index.BaseDir).
		Msg("rocrate-index started")
}

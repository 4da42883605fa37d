package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Backend:         %s\n", cfg.Endpoint())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Default Model:   %s\n", cfg.PreferredModel())
	fmt.Fprintf(out, "  Alert TTL:       %s\n", cfg.AlertTTL())
	fmt.Fprintf(out, "  Download Dir:    %s\n", cfg.DownloadDirectory())
	if every := cfg.AutoRefreshInterval(); every > 0 {
		fmt.Fprintf(out, "  Auto Refresh:    every %s\n", every)
	} else {
		fmt.Fprintln(out, "  Auto Refresh:    on focus only")
	}
	fmt.Fprintf(out, "  Markdown Style:  %s\n", cfg.MarkdownRenderStyle())
	for _, p := range cfg.Providers() {
		fmt.Fprintf(out, "  Cloud Provider:  group=%s prefix=%s key=%s\n", p.Group, p.Prefix, p.CredentialVar)
	}
}

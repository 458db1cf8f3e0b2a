package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandConverter shells out to an office suite, e.g. LibreOffice's soffice.
type CommandConverter struct {
	Binary string
}

func (c *CommandConverter) Convert(ctx context.Context, srcPath string) (string, error) {
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrConverterAbsent, c.Binary)
	}

	outDir := filepath.Dir(srcPath)
	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, srcPath)
	output, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%s: %w", c.Binary, ctxErr)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %v: %s", c.Binary, err, strings.TrimSpace(string(output)))
	}

	pdfPath := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".pdf"
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%s produced no pdf: %w", c.Binary, err)
	}
	return pdfPath, nil
}

package engine

import (
	"fmt"

	"github.com/adverant/nexus/ocr-adapter/internal/config"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr/tesseract"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr/tesseractcli"
)

// New builds the capability backend selected by cfg.Engine.
func New(cfg *config.Config) (ocr.Recognizer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	switch cfg.Engine {
	case config.EngineGosseract, "":
		return tesseract.NewEngine(tesseract.Config{
			TessdataPrefix: cfg.TessdataPrefix,
			PageSegMode:    cfg.PageSegMode,
		}), nil
	case config.EngineTesseractCLI:
		return tesseractcli.NewEngine(tesseractcli.Config{
			TesseractPath:  cfg.TesseractPath,
			TessdataPrefix: cfg.TessdataPrefix,
			PageSegMode:    cfg.PageSegMode,
		}), nil
	default:
		return nil, fmt.Errorf("unknown engine type: %s", cfg.Engine)
	}
}

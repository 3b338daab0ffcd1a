package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth int    `toml:"tab-width"`
	Language string `toml:"language"`
}

type UndoOptions struct {
	// Limit is the soft byte cap: truncation cuts at the first group
	// boundary past it. StrongLimit is the hard cap that forces a cut
	// at the last boundary seen.
	Limit       int `toml:"limit"`
	StrongLimit int `toml:"strong-limit"`
}

type IntervalOptions struct {
	BalanceThreshold int `toml:"balance-threshold"`
}

type Theme struct {
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	FaceKeyword          string `toml:"face-keyword"`
	FaceString           string `toml:"face-string"`
	FaceComment          string `toml:"face-comment"`
	FaceType             string `toml:"face-type"`
	FaceFunction         string `toml:"face-function"`
	FaceNumber           string `toml:"face-number"`
	FaceConstant         string `toml:"face-constant"`
	FaceOperator         string `toml:"face-operator"`
	FaceBuiltin          string `toml:"face-builtin"`
	FaceVariable         string `toml:"face-variable"`
}

type Config struct {
	Editor    EditorOptions   `toml:"editor"`
	Undo      UndoOptions     `toml:"undo"`
	Intervals IntervalOptions `toml:"intervals"`
	Theme     Theme           `toml:"theme"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth: 4,
			Language: "",
		},
		Undo: UndoOptions{
			Limit:       160000,
			StrongLimit: 240000,
		},
		Intervals: IntervalOptions{
			BalanceThreshold: 8,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			FaceKeyword:          "#FFA759",
			FaceString:           "#BAE67E",
			FaceComment:          "#5C6773",
			FaceType:             "#5CCFE6",
			FaceFunction:         "#FFD173",
			FaceNumber:           "#D4BFFF",
			FaceConstant:         "#FFDD8E",
			FaceOperator:         "#F29668",
			FaceBuiltin:          "#73D0FF",
			FaceVariable:         "#B3B1AD",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.Language != "" {
		cfg.Editor.Language = userCfg.Editor.Language
	}
	if userCfg.Undo.Limit > 0 {
		cfg.Undo.Limit = userCfg.Undo.Limit
	}
	if userCfg.Undo.StrongLimit > 0 {
		cfg.Undo.StrongLimit = userCfg.Undo.StrongLimit
	}
	if userCfg.Intervals.BalanceThreshold > 0 {
		cfg.Intervals.BalanceThreshold = userCfg.Intervals.BalanceThreshold
	}
	if userCfg.Theme.Foreground != "" {
		cfg.Theme.Foreground = userCfg.Theme.Foreground
	}
	if userCfg.Theme.Background != "" {
		cfg.Theme.Background = userCfg.Theme.Background
	}
	if userCfg.Theme.StatuslineForeground != "" {
		cfg.Theme.StatuslineForeground = userCfg.Theme.StatuslineForeground
	}
	if userCfg.Theme.StatuslineBackground != "" {
		cfg.Theme.StatuslineBackground = userCfg.Theme.StatuslineBackground
	}
	if userCfg.Theme.FaceKeyword != "" {
		cfg.Theme.FaceKeyword = userCfg.Theme.FaceKeyword
	}
	if userCfg.Theme.FaceString != "" {
		cfg.Theme.FaceString = userCfg.Theme.FaceString
	}
	if userCfg.Theme.FaceComment != "" {
		cfg.Theme.FaceComment = userCfg.Theme.FaceComment
	}
	if userCfg.Theme.FaceType != "" {
		cfg.Theme.FaceType = userCfg.Theme.FaceType
	}
	if userCfg.Theme.FaceFunction != "" {
		cfg.Theme.FaceFunction = userCfg.Theme.FaceFunction
	}
	if userCfg.Theme.FaceNumber != "" {
		cfg.Theme.FaceNumber = userCfg.Theme.FaceNumber
	}
	if userCfg.Theme.FaceConstant != "" {
		cfg.Theme.FaceConstant = userCfg.Theme.FaceConstant
	}
	if userCfg.Theme.FaceOperator != "" {
		cfg.Theme.FaceOperator = userCfg.Theme.FaceOperator
	}
	if userCfg.Theme.FaceBuiltin != "" {
		cfg.Theme.FaceBuiltin = userCfg.Theme.FaceBuiltin
	}
	if userCfg.Theme.FaceVariable != "" {
		cfg.Theme.FaceVariable = userCfg.Theme.FaceVariable
	}

	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("TEXTSPAN_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "textspan"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textspan"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

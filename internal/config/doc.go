// Package config provides typed configuration for dragselect.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← DRAGSELECT_ENGINE_MODE=path
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, chosen by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, YAML, environment variables)
//   - watcher: fsnotify file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(
//	    config.WithFile("dragselect.toml"),
//	    config.WithOverrides(map[string]any{"engine.mode": "path"}),
//	)
//	if err != nil {
//	    return err
//	}
//	eng := dragselect.New(set, dragselect.WithConfig(cfg.Engine.DragSelect()))
//
// # Live Reload
//
// Reloader watches the config file and hands every successfully loaded and
// validated Config to a callback. Invalid edits are reported and the
// previous configuration stays in effect.
package config

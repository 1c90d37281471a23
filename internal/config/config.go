// Package config loads taskline's Lua configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

type APIConfig struct {
	Base string
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	API    APIConfig
	Notify bool
	Log    LogConfig
}

func Default() Config {
	return Config{
		API: APIConfig{Base: "http://localhost:8383/api"},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the config table from a Lua file. A missing file is not an
// error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return cfg, fmt.Errorf("failure executing %s: %w", path, err)
	}

	return loadConfigFrom(L, cfg)
}

func loadConfigFrom(L *lua.LState, cfg Config) (Config, error) {
	lv := L.GetGlobal("config")
	if lv == lua.LNil {
		return cfg, nil
	}

	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return cfg, errors.New("config must be a table")
	}

	if api, ok := tbl.RawGetString("api").(*lua.LTable); ok {
		if base := luaString(api, "base"); base != "" {
			cfg.API.Base = base
		}
	}

	cfg.Notify = luaBool(tbl, "notify", cfg.Notify)

	if logTbl, ok := tbl.RawGetString("log").(*lua.LTable); ok {
		if level := luaString(logTbl, "level"); level != "" {
			cfg.Log.Level = level
		}

		if format := luaString(logTbl, "format"); format != "" {
			cfg.Log.Format = format
		}
	}

	return cfg, nil
}

func luaString(tbl *lua.LTable, key string) string {
	lv := tbl.RawGetString(key)
	if s, ok := lv.(lua.LString); ok {
		return string(s)
	}

	return ""
}

func luaBool(tbl *lua.LTable, key string, fallback bool) bool {
	lv := tbl.RawGetString(key)
	if b, ok := lv.(lua.LBool); ok {
		return bool(b)
	}

	return fallback
}

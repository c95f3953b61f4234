package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCacheDir(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "xdg wins", env: map[string]string{"XDG_CACHE_HOME": "/xdg", "HOME": "/home/u"}, want: filepath.Join("/xdg", "noirbuild")},
		{name: "home", env: map[string]string{"HOME": "/home/u"}, want: filepath.Join("/home/u", ".cache", "noirbuild")},
		{name: "relative xdg is ignored", env: map[string]string{"XDG_CACHE_HOME": "cache", "HOME": "/home/u"}, want: filepath.Join("/home/u", ".cache", "noirbuild")},
		{name: "no home uses tmpdir", env: map[string]string{"TMPDIR": "/var/tmp"}, want: filepath.Join("/var/tmp", "noirbuild")},
		{name: "empty environment", env: map[string]string{"HOME": ""}, want: filepath.Join("/tmp", "noirbuild")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DefaultCacheDir(tc.env)
			assert.Equal(t, tc.want, got)
			assert.True(t, filepath.IsAbs(got))
		})
	}
}

func TestDefaults_LeavesCompilerToCaller(t *testing.T) {
	s := Defaults(map[string]string{"HOME": "/h"})

	assert.Equal(t, BackendNargo, s.Backend)
	assert.Empty(t, s.Compiler.Binary)
	assert.Empty(t, s.Remote.ArchiveURL)
	assert.ErrorContains(t, s.Validate(), "compiler.binary")
}

func TestEnvMap(t *testing.T) {
	env := EnvMap([]string{"A=1", "B=x=y", "BROKEN"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)
}

func TestSettings_Validate(t *testing.T) {
	valid := func() *Settings {
		s := Defaults(map[string]string{"HOME": "/h"})
		s.Compiler.Binary = "nargo"
		return s
	}
	require.NoError(t, valid().Validate())

	testCases := []struct {
		name   string
		mutate func(s *Settings)
		errMsg string
	}{
		{name: "backend", mutate: func(s *Settings) { s.Backend = "wasm" }, errMsg: "unknown backend"},
		{name: "cache dir", mutate: func(s *Settings) { s.CacheDir = "" }, errMsg: "cache_dir"},
		{name: "relative cache dir", mutate: func(s *Settings) { s.CacheDir = ".noir-cache" }, errMsg: "must be an absolute path"},
		{name: "binary", mutate: func(s *Settings) { s.Compiler.Binary = "" }, errMsg: "compiler.binary"},
		{name: "timeout", mutate: func(s *Settings) { s.Remote.Timeout = -time.Second }, errMsg: "remote.timeout"},
		{name: "log level", mutate: func(s *Settings) { s.Log.Level = "trace" }, errMsg: "log level"},
		{name: "log format", mutate: func(s *Settings) { s.Log.Format = "xml" }, errMsg: "log format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			assert.ErrorContains(t, s.Validate(), tc.errMsg)
		})
	}
}

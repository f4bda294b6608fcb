package cpp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectOutputPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		objectFile string
		expected   string
	}{
		{"src/a.cpp.o", "build/src/a.cpp.o"},
		{"./src/a.cpp.o", "build/src/a.cpp.o"},
		{"/abs/src/a.cpp.o", "build/abs/src/a.cpp.o"},
		{"../lib/a.cpp.o", "build/__/lib/a.cpp.o"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, objectOutputPath("build", tc.objectFile), "For %s", tc.objectFile)
	}
}

func TestConfigResolve(t *testing.T) {
	t.Parallel()

	toolchain, outputDir := newConfig(nil).resolve(context.Background())
	assert.Equal(t, PlatformDefault().Family(), toolchain.Family())
	assert.Equal(t, DefaultBuildDir, outputDir)

	msvc := NewMSVC()
	ctx := ContextWithDefaults(context.Background(), Defaults{Toolchain: msvc, OutputDir: "out"})

	toolchain, outputDir = newConfig(nil).resolve(ctx)
	assert.Same(t, msvc, toolchain)
	assert.Equal(t, "out", outputDir)

	gnu := &GNU{}

	toolchain, outputDir = newConfig([]Option{WithToolchain(gnu), WithOutputDir("custom")}).resolve(ctx)
	assert.Same(t, gnu, toolchain)
	assert.Equal(t, "custom", outputDir)
}

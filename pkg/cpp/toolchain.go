package cpp

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/cradle-build/cradle/internal/errors"
)

const (
	GNUFamily  = "gnu"
	MSVCFamily = "msvc"

	CompilerEnvVar = "CXX"
	ArchiverEnvVar = "AR"

	defaultGNUCompiler = "g++"
	defaultGNUArchiver = "ar"

	defaultMSVCCompiler = "cl"
	defaultMSVCArchiver = "lib"
	defaultMSVCLinker   = "link"
)

// Toolchain synthesizes the command lines of one compiler family.
type Toolchain interface {
	// Family returns the family name, `gnu` or `msvc`.
	Family() string
	// ObjectFileName returns the object file name for the given source path.
	ObjectFileName(source string) string
	// StaticLibName returns the archive file name for the given library name.
	StaticLibName(name string) string
	// ExecutableName returns the executable file name for the given program name.
	ExecutableName(name string) string
	// CompileObjectCmd compiles one translation unit into an object.
	CompileObjectCmd(output, source string, includeDirs []string) string
	// ArchiveCmd archives objects into a static library.
	ArchiveCmd(output string, objects []string) string
	// LinkExeCmd links objects and libraries into an executable.
	LinkExeCmd(output string, objects, includeDirs, libraries, libraryPaths []string) string
}

// ToolchainSettings describes a toolchain. Empty values fall back to the family defaults.
type ToolchainSettings struct {
	Family       string
	Compiler     string
	Archiver     string
	Linker       string
	CompileFlags []string
	LinkFlags    []string
	ArchiveFlags []string
}

// NewToolchain returns the toolchain described by settings. An empty family selects the platform default.
func NewToolchain(settings ToolchainSettings) (Toolchain, error) {
	family := strings.ToLower(settings.Family)
	if family == "" {
		family = platformFamily()
	}

	switch family {
	case GNUFamily, "gcc", "clang":
		gnu := NewGNU()
		gnu.CompileFlags = settings.CompileFlags
		gnu.LinkFlags = settings.LinkFlags
		gnu.ArchiveFlags = settings.ArchiveFlags

		if settings.Compiler != "" {
			gnu.Compiler = settings.Compiler
		}

		if settings.Archiver != "" {
			gnu.Archiver = settings.Archiver
		}

		return gnu, nil
	case MSVCFamily:
		msvc := NewMSVC()
		msvc.CompileFlags = settings.CompileFlags
		msvc.LinkFlags = settings.LinkFlags
		msvc.ArchiveFlags = settings.ArchiveFlags

		if settings.Compiler != "" {
			msvc.Compiler = settings.Compiler
		}

		if settings.Archiver != "" {
			msvc.Archiver = settings.Archiver
		}

		if settings.Linker != "" {
			msvc.Linker = settings.Linker
		}

		return msvc, nil
	}

	return nil, errors.New(UnknownToolchainError{Family: settings.Family})
}

// PlatformDefault returns MSVC on Windows and GNU elsewhere.
func PlatformDefault() Toolchain {
	if platformFamily() == MSVCFamily {
		return NewMSVC()
	}

	return NewGNU()
}

func platformFamily() string {
	if runtime.GOOS == "windows" {
		return MSVCFamily
	}

	return GNUFamily
}

// GNU covers gcc, clang and compatible compilers.
type GNU struct {
	Compiler     string
	Archiver     string
	CompileFlags []string
	LinkFlags    []string
	ArchiveFlags []string
}

// NewGNU returns a GNU toolchain using $CXX and $AR, or g++ and ar.
func NewGNU() *GNU {
	return &GNU{
		Compiler: getEnvOrDefault(CompilerEnvVar, defaultGNUCompiler),
		Archiver: getEnvOrDefault(ArchiverEnvVar, defaultGNUArchiver),
	}
}

func (gnu *GNU) Family() string { return GNUFamily }

func (gnu *GNU) ObjectFileName(source string) string { return source + ".o" }

func (gnu *GNU) StaticLibName(name string) string { return "lib" + name + ".a" }

func (gnu *GNU) ExecutableName(name string) string { return name }

func (gnu *GNU) CompileObjectCmd(output, source string, includeDirs []string) string {
	return newCmdline(gnu.Compiler).
		add(gnu.CompileFlags...).
		add("-c", source).
		addPrefixed("-I", includeDirs).
		add("-o", output).
		String()
}

func (gnu *GNU) ArchiveCmd(output string, objects []string) string {
	return newCmdline(gnu.Archiver).
		add(gnu.ArchiveFlags...).
		add("rcs", output).
		add(objects...).
		String()
}

func (gnu *GNU) LinkExeCmd(output string, objects, includeDirs, libraries, libraryPaths []string) string {
	return newCmdline(gnu.Compiler).
		addPrefixed("-I", includeDirs).
		addPrefixed("-L", libraryPaths).
		add(objects...).
		addPrefixed("-l", libraries).
		add(gnu.LinkFlags...).
		add("-o", output).
		String()
}

// MSVC covers the Microsoft cl/lib/link tools.
type MSVC struct {
	Compiler     string
	Archiver     string
	Linker       string
	CompileFlags []string
	LinkFlags    []string
	ArchiveFlags []string
}

func NewMSVC() *MSVC {
	return &MSVC{
		Compiler: defaultMSVCCompiler,
		Archiver: defaultMSVCArchiver,
		Linker:   defaultMSVCLinker,
	}
}

func (msvc *MSVC) Family() string { return MSVCFamily }

func (msvc *MSVC) ObjectFileName(source string) string { return source + ".obj" }

func (msvc *MSVC) StaticLibName(name string) string { return name + ".lib" }

func (msvc *MSVC) ExecutableName(name string) string { return name + ".exe" }

func (msvc *MSVC) CompileObjectCmd(output, source string, includeDirs []string) string {
	return newCmdline(msvc.Compiler).
		add(msvc.CompileFlags...).
		add("/c", source).
		addPrefixed("/I", includeDirs).
		add("/Fo" + output).
		String()
}

func (msvc *MSVC) ArchiveCmd(output string, objects []string) string {
	return newCmdline(msvc.Archiver).
		add(msvc.ArchiveFlags...).
		add("/OUT:" + output).
		add(objects...).
		String()
}

func (msvc *MSVC) LinkExeCmd(output string, objects, _, libraries, libraryPaths []string) string {
	libs := make([]string, 0, len(libraries))
	for _, lib := range libraries {
		libs = append(libs, msvc.StaticLibName(lib))
	}

	return newCmdline(msvc.Linker).
		addPrefixed("/LIBPATH:", libraryPaths).
		add(objects...).
		add(libs...).
		add(msvc.LinkFlags...).
		add("/OUT:" + output).
		String()
}

func getEnvOrDefault(name, defaultValue string) string {
	if val, ok := os.LookupEnv(name); ok && val != "" {
		return val
	}

	return defaultValue
}

// cmdline accumulates arguments and renders them as a command line that shell.RunCommand splits back losslessly.
type cmdline []string

func newCmdline(command string) cmdline {
	return cmdline{command}
}

func (cmd cmdline) add(args ...string) cmdline {
	return append(cmd, args...)
}

func (cmd cmdline) addPrefixed(prefix string, args []string) cmdline {
	for _, arg := range args {
		cmd = append(cmd, prefix+arg)
	}

	return cmd
}

func (cmd cmdline) String() string {
	quoted := make([]string, 0, len(cmd))

	// The command itself is kept verbatim so that $CXX may carry a wrapper such as `ccache g++`.
	for i, arg := range cmd {
		if i > 0 && (arg == "" || strings.ContainsAny(arg, " \t\n'\"\\#")) {
			arg = strconv.Quote(arg)
		}

		quoted = append(quoted, arg)
	}

	return strings.Join(quoted, " ")
}

package config

// Version is the tool version reported by `thread -v`.
const Version = "0.3.0"

const SourceFileExt = ".rs"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".rs"}

// Config file names searched by FindConfig, in order.
var ConfigFileNames = []string{"thread.yaml", "thread.yml"}

// Default invocation paths recognised by the source expander.
var DefaultMacros = []string{"thread", "thread::thread"}

// Pattern keywords
const (
	SomeKeyword      = "Some"
	OkKeyword        = "Ok"
	CondKeyword      = "Cond"
	CondCloneKeyword = "CondClone"
)

// Placement keywords
const (
	FirstKeyword = "first"
	LastKeyword  = "last"
)

// Names emitted by the rewrite
const (
	DefaultBoundName = "i"
	MapMethodName    = "map"
	CloneMethodName  = "clone"
)

// EmptyPipeMessage is the diagnostic for an instruction list with no items.
const EmptyPipeMessage = "expected some functions as pipe"

const (
	DefaultMaxDepth = 16
	MaxMaxDepth     = 256
)

// Environment variables consulted by LoadSettings.
const (
	EnvConfig  = "THREAD_CONFIG"
	EnvCache   = "THREAD_CACHE"
	EnvDebug   = "THREAD_DEBUG"
	EnvNoColor = "NO_COLOR"
	EnvDepth   = "THREAD_MAX_DEPTH"
)

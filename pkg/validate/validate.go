// Package validate turns untrusted strings into typed, guaranteed-safe
// values. Every function is pure: no I/O beyond the explicit existence
// checks, no shared state, safe for concurrent use.
//
// The blocklists here are defense in depth, not the primary guarantee.
// The actual safety properties are argument-vector process creation
// (pkg/adapters/process) and shell-escape disabling (pkg/latex); the
// denied-token tables below are documented starting points and should
// not be assumed exhaustive without a dedicated security review.
package validate

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
)

// Identifier is a string proven to match a declared charset, carry no
// path traversal, no NUL byte, and no shell metacharacter. Once
// constructed it can be embedded in an argument vector without
// re-validation.
type Identifier string

// Path is an absolute, cleaned filesystem path proven to be a
// descendant of the base directory it was validated against.
type Path string

// BranchName is an Identifier further constrained by git ref rules.
type BranchName string

// URL is a string matching the scheme://host/path grammar with an
// allow-listed scheme and no local-host reference.
type URL string

func (i Identifier) String() string { return string(i) }
func (p Path) String() string       { return string(p) }
func (b BranchName) String() string { return string(b) }
func (u URL) String() string        { return string(u) }

// shellMetachars is the denied token set for identifiers. It applies
// regardless of charset flags: a flag that admits a character does not
// exempt it from this veto.
const shellMetachars = ";&|`$(){}[]<>*?'\"\\"

var (
	branchPattern = regexp.MustCompile(`^[a-zA-Z0-9/_-]+$`)
	modelPattern  = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)
	urlPattern    = regexp.MustCompile(`^(https?|git)://[a-zA-Z0-9.-]+(/[a-zA-Z0-9._~:/?#\[\]@!$&'()*+,;=-]*)?$`)
)

// latexDenied maps blocked typesetting directives to their description.
// These are the document language's own code-execution escape hatches,
// triggered from inside the source rather than from the command line.
var latexDenied = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)\\write18`), "write18 (shell escape)"},
	{regexp.MustCompile(`(?i)\\input\{?\|`), "input with pipe"},
	{regexp.MustCompile(`(?i)\\immediate`), "immediate"},
	{regexp.MustCompile(`(?i)\\openout`), "openout (file write)"},
	{regexp.MustCompile(`(?i)\\openin`), "openin (file read)"},
	{regexp.MustCompile(`(?i)\\special`), "special"},
	{regexp.MustCompile(`(?i)\\pdfliteral`), "pdfliteral"},
}

// IdentifierOpts declares the charset an identifier may use.
type IdentifierOpts struct {
	MaxLength       int // 0 means 50
	AllowDash       bool
	AllowUnderscore bool
	AllowSlash      bool
}

// NewIdentifier validates a generic identifier (research field,
// instance ID, and the like) against the opt-in charset.
func NewIdentifier(field, value string, opts IdentifierOpts) (Identifier, error) {
	maxLen := opts.MaxLength
	if maxLen == 0 {
		maxLen = 50
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", &domain.ValidationError{Field: field, Reason: "cannot be empty or whitespace only"}
	}
	if len(value) > maxLen {
		return "", &domain.ValidationError{Field: field, Reason: "too long", Value: value}
	}

	for _, r := range value {
		if isAlphanumeric(r) {
			continue
		}
		switch {
		case r == '-' && opts.AllowDash:
		case r == '_' && opts.AllowUnderscore:
		case r == '/' && opts.AllowSlash:
		default:
			return "", &domain.ValidationError{Field: field, Reason: "contains characters outside the allowed charset", Value: value}
		}
	}

	// The charset above already excludes all of these, but the checks
	// are kept independent: a future charset flag must not silently
	// re-admit a dangerous character.
	if strings.Contains(value, "..") {
		return "", &domain.ValidationError{Field: field, Reason: "path traversal ('..') not allowed", Value: value}
	}
	if strings.ContainsRune(value, 0) {
		return "", &domain.ValidationError{Field: field, Reason: "null byte not allowed"}
	}
	if i := strings.IndexAny(value, shellMetachars); i >= 0 {
		return "", &domain.ValidationError{Field: field, Reason: "shell metacharacters not allowed", Value: value}
	}

	return Identifier(value), nil
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// NewPath resolves userPath against baseDir (when relative), cleans the
// result, and proves it is a descendant of baseDir. With mustExist the
// target must also be present on disk.
func NewPath(field, userPath, baseDir string, mustExist bool) (Path, error) {
	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", &domain.ValidationError{Field: field, Reason: "base directory not resolvable", Value: baseDir}
	}

	var target string
	if filepath.IsAbs(userPath) {
		target = filepath.Clean(userPath)
	} else {
		target = filepath.Join(base, userPath)
	}

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &domain.ValidationError{Field: field, Reason: "outside base directory", Value: target}
	}

	if mustExist {
		if _, err := os.Stat(target); err != nil {
			return "", &domain.ValidationError{Field: field, Reason: "does not exist", Value: target}
		}
	}

	return Path(target), nil
}

// NewBranchName validates a git branch name: max 255 chars, charset
// [A-Za-z0-9/_-], no leading '.' or '/', no '.lock' suffix, no '..'.
func NewBranchName(branch string) (BranchName, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return "", &domain.ValidationError{Field: "branch", Reason: "cannot be empty"}
	}
	if len(branch) > 255 {
		return "", &domain.ValidationError{Field: "branch", Reason: "too long (max 255)", Value: branch}
	}
	if !branchPattern.MatchString(branch) {
		return "", &domain.ValidationError{Field: "branch", Reason: "allowed characters are alphanumeric, dash, underscore, slash", Value: branch}
	}
	if strings.HasPrefix(branch, ".") || strings.HasPrefix(branch, "/") {
		return "", &domain.ValidationError{Field: "branch", Reason: "cannot start with '.' or '/'", Value: branch}
	}
	if strings.HasSuffix(branch, ".lock") {
		return "", &domain.ValidationError{Field: "branch", Reason: "cannot end with '.lock'", Value: branch}
	}
	if strings.Contains(branch, "..") {
		return "", &domain.ValidationError{Field: "branch", Reason: "cannot contain '..'", Value: branch}
	}
	return BranchName(branch), nil
}

// NewURL validates a URL against the scheme allow-list. The default
// allow-list is https only; git clone passes {https, git} explicitly.
// Local hosts are always rejected.
func NewURL(raw string, allowedSchemes ...string) (URL, error) {
	if len(allowedSchemes) == 0 {
		allowedSchemes = []string{"https"}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.ValidationError{Field: "url", Reason: "cannot be empty"}
	}
	if !urlPattern.MatchString(raw) {
		return "", &domain.ValidationError{Field: "url", Reason: "malformed URL", Value: raw}
	}

	scheme := strings.ToLower(strings.SplitN(raw, "://", 2)[0])
	allowed := false
	for _, s := range allowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", &domain.ValidationError{Field: "url", Reason: "scheme '" + scheme + "' not allowed", Value: raw}
	}

	lower := strings.ToLower(raw)
	if strings.Contains(lower, "localhost") || strings.Contains(raw, "127.0.0.1") {
		return "", &domain.ValidationError{Field: "url", Reason: "local URLs not allowed", Value: raw}
	}

	return URL(raw), nil
}

// NewModelName validates an LLM model name such as
// "openrouter/google/gemini-2.5-pro" or "gpt-4o".
func NewModelName(model string) (Identifier, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", &domain.ValidationError{Field: "model", Reason: "cannot be empty"}
	}
	if len(model) > 200 {
		return "", &domain.ValidationError{Field: "model", Reason: "too long (max 200)", Value: model}
	}
	if !modelPattern.MatchString(model) {
		return "", &domain.ValidationError{Field: "model", Reason: "allowed characters are alphanumeric, dash, underscore, slash, dot", Value: model}
	}
	return Identifier(model), nil
}

// LatexContent rejects typesetting source containing any directive from
// the denied table and otherwise passes the content through unchanged.
func LatexContent(content string) (string, error) {
	for _, d := range latexDenied {
		if d.pattern.MatchString(content) {
			return "", &domain.ValidationError{Field: "latex content", Reason: "dangerous command detected: " + d.name}
		}
	}
	return content, nil
}

// Port bounds a port number to the unprivileged range [1024, 65535].
func Port(port int) (int, error) {
	if port < 1024 || port > 65535 {
		return 0, &domain.ValidationError{Field: "port", Reason: "must be between 1024 and 65535"}
	}
	return port, nil
}

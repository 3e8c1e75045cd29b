package originurl

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	sshSchemePrefixConstant            = "ssh://"
	httpSchemePrefixConstant           = "http://"
	httpsSchemePrefixConstant          = "https://"
	userInfoDelimiterConstant          = "@"
	shorthandSeparatorConstant         = ":"
	pathSeparatorConstant              = "/"
	repositorySuffixConstant           = ".git"
	currentDirectoryComponentConstant  = "."
	parentDirectoryComponentConstant   = ".."
	unsafeComponentCharactersConstant  = "/\\\x00"
	unrecognizedFormatTemplateConstant = "unrecognized git remote url: %s"
)

// ParsedOrigin captures the canonical identity extracted from a git remote URL.
type ParsedOrigin struct {
	Host         string
	PathSegments []string
}

// UnrecognizedFormatError reports a remote URL that matches none of the supported syntaxes.
type UnrecognizedFormatError struct {
	Input string
}

// Error describes the unrecognized remote URL.
func (parseError UnrecognizedFormatError) Error() string {
	return fmt.Sprintf(unrecognizedFormatTemplateConstant, parseError.Input)
}

// Parse converts a git remote URL into its host and repository path segments.
//
// Three syntaxes are recognized in strict priority order: scheme-qualified SSH
// (ssh://[user@]host[:port]/path), HTTP(S) with optional embedded credentials,
// and shorthand SSH ([user@]host:path). The shorthand form is tried last so a
// scheme-qualified URL is never misread by splitting on the wrong colon. Once
// a scheme prefix matches, parsing commits to that syntax; a malformed body
// fails with UnrecognizedFormatError instead of degrading to shorthand.
func Parse(rawURL string) (ParsedOrigin, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if len(trimmedURL) == 0 {
		return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
	}

	switch {
	case strings.HasPrefix(trimmedURL, sshSchemePrefixConstant):
		return parseSchemeQualified(rawURL, trimmedURL)
	case strings.HasPrefix(trimmedURL, httpSchemePrefixConstant):
		return parseSchemeQualified(rawURL, trimmedURL)
	case strings.HasPrefix(trimmedURL, httpsSchemePrefixConstant):
		return parseSchemeQualified(rawURL, trimmedURL)
	default:
		return parseShorthand(rawURL, trimmedURL)
	}
}

func parseSchemeQualified(rawURL string, trimmedURL string) (ParsedOrigin, error) {
	parsedURL, parseError := url.Parse(trimmedURL)
	if parseError != nil {
		return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
	}

	// Hostname drops userinfo, the port, and IPv6 brackets in one step.
	host := parsedURL.Hostname()
	return newParsedOrigin(rawURL, host, splitPathSegments(parsedURL.Path))
}

func parseShorthand(rawURL string, trimmedURL string) (ParsedOrigin, error) {
	separatorIndex := strings.Index(trimmedURL, shorthandSeparatorConstant)
	if separatorIndex < 0 {
		return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
	}

	hostPortion := trimmedURL[:separatorIndex]
	pathPortion := trimmedURL[separatorIndex+len(shorthandSeparatorConstant):]

	if userDelimiterIndex := strings.Index(hostPortion, userInfoDelimiterConstant); userDelimiterIndex >= 0 {
		hostPortion = hostPortion[userDelimiterIndex+len(userInfoDelimiterConstant):]
	}

	return newParsedOrigin(rawURL, hostPortion, splitPathSegments(pathPortion))
}

func splitPathSegments(pathPortion string) []string {
	rawSegments := strings.Split(pathPortion, pathSeparatorConstant)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if len(segment) == 0 {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

func newParsedOrigin(rawURL string, host string, segments []string) (ParsedOrigin, error) {
	if !isFilesystemSafeComponent(host) {
		return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
	}

	segments = stripRepositorySuffix(segments)
	if len(segments) == 0 {
		return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
	}

	for _, segment := range segments {
		if !isFilesystemSafeComponent(segment) {
			return ParsedOrigin{}, UnrecognizedFormatError{Input: rawURL}
		}
	}

	return ParsedOrigin{Host: host, PathSegments: segments}, nil
}

// stripRepositorySuffix removes a trailing .git from the final segment only,
// dropping the segment entirely when nothing remains.
func stripRepositorySuffix(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	finalIndex := len(segments) - 1
	strippedSegment := strings.TrimSuffix(segments[finalIndex], repositorySuffixConstant)
	if len(strippedSegment) == 0 {
		return segments[:finalIndex]
	}

	segments[finalIndex] = strippedSegment
	return segments
}

func isFilesystemSafeComponent(component string) bool {
	if len(component) == 0 {
		return false
	}
	if component == currentDirectoryComponentConstant || component == parentDirectoryComponentConstant {
		return false
	}
	return !strings.ContainsAny(component, unsafeComponentCharactersConstant)
}

package api

import (
	"github.com/Masterminds/semver/v3"
)

// HeaderAPIVersion is the response header carrying the server's API version.
const HeaderAPIVersion = "X-Api-Version"

// SupportedAPIVersions is the server version range this client understands.
const SupportedAPIVersions = ">= 1.0.0, < 2.0.0"

// CheckAPIVersion reports whether a server-advertised version satisfies
// SupportedAPIVersions.
func CheckAPIVersion(raw string) (bool, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return false, err
	}
	constraint, err := semver.NewConstraint(SupportedAPIVersions)
	if err != nil {
		return false, err
	}
	return constraint.Check(v), nil
}

// checkVersion warns once per client when the server advertises an
// unsupported or unparsable version. It never fails a request.
func (c *Client) checkVersion(raw string) {
	if c.skipVersionCheck || raw == "" {
		return
	}
	c.versionOnce.Do(func() {
		ok, err := CheckAPIVersion(raw)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Str("api_version", raw).Msg("could not parse catalog API version")
		case !ok:
			c.logger.Warn().
				Str("api_version", raw).
				Str("supported", SupportedAPIVersions).
				Msg("catalog API version is outside the supported range")
		}
	})
}

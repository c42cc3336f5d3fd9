package login

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// NormalizePhone parses a raw phone number and returns the canonical E.164
// form. The country code may be either an international dialing prefix
// (e.g. "+971") or an ISO 3166-1 alpha-2 region (e.g. "US"). Numbers
// already prefixed with "+" need no country code. All storage and lookups
// use the normalized form so the same number always maps to the same user.
func NormalizePhone(countryCode, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", idmerr.New(idmerr.ErrCodeInvalidPhoneNumber, "phone number cannot be empty")
	}

	cc := strings.TrimSpace(countryCode)
	region := ""
	if strings.HasPrefix(cc, "+") {
		// Dial-prefix form: join prefix and national number into one E.164
		// candidate and let the parser resolve the region.
		if !strings.HasPrefix(raw, "+") {
			raw = cc + raw
		}
	} else {
		region = strings.ToUpper(cc)
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", idmerr.Wrap(err, idmerr.ErrCodeInvalidPhoneNumber, "failed to parse phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", idmerr.New(idmerr.ErrCodeInvalidPhoneNumber, "phone number is not valid for region")
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

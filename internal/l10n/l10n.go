// Package l10n translates user-facing messages through gettext catalogs
// of the "bugz" text domain.
package l10n

import (
	"fmt"

	"github.com/snapcore/go-gettext"
)

// Domain is the gettext text domain.
const Domain = "bugz"

var domain = gettext.TextDomain{Name: Domain}
var locale = domain.UserLocale()

// T localizes simple strings. With vars, the translation is used as a
// format string.
func T(str string, vars ...interface{}) string {
	translation := locale.Gettext(str)
	if len(vars) > 0 {
		translation = fmt.Sprintf(translation, vars...)
	}
	return translation
}

// TN localizes strings with plurals.
func TN(singular, plural string, n uint32, vars ...interface{}) string {
	translation := locale.NGettext(singular, plural, n)
	if len(vars) > 0 {
		translation = fmt.Sprintf(translation, vars...)
	}
	return translation
}

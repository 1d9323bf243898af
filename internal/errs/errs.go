package errs

import "fmt"

type Code string

const (
	RegexNeedsQuery    Code = "REGEX_NEEDS_QUERY"
	InvalidPage        Code = "INVALID_PAGE"
	InvalidPerPage     Code = "INVALID_PER_PAGE"
	ClearNotConfirmed  Code = "CLEAR_NOT_CONFIRMED"
	RefreshScheduleBad Code = "REFRESH_SCHEDULE_BAD"
	ConfigExists       Code = "CONFIG_EXISTS"
)

var messages = map[Code]string{
	RegexNeedsQuery: `Invalid flag combination: --regex requires a query

Usage:
  artcrate search '^knight' --regex`,

	InvalidPage: `Invalid page: %[1]d (pages start at 1)

Usage:
  artcrate search --page 2`,

	InvalidPerPage: `Invalid page size: %[1]d

Usage:
  artcrate search --per-page 10   # one of 10, 20, 50
  artcrate search --per-page 0    # show everything`,

	ClearNotConfirmed: `Cache not cleared

Usage:
  artcrate cache clear          # asks for confirmation
  artcrate cache clear --yes    # no prompt, for scripts

Reason:
  clearing drops the offline copy; if the download then fails there is nothing to fall back to.`,

	RefreshScheduleBad: `Invalid refresh schedule: %[1]q

Usage:
  artcrate serve --refresh-every "@every 1h"
  artcrate serve --refresh-every "0 */6 * * *"
  artcrate serve --refresh-every ""             # disable`,

	ConfigExists: `Config file already exists: %[1]s

Usage:
  artcrate config init --force                     # overwrite it
  artcrate --config ./artcrate.yml config init     # write somewhere else`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}

package model

import (
	"fmt"
	"strconv"
)

// AllSeasons lists the seasons covered by a full historical backfill, newest first.
var AllSeasons = []string{
	"2025-26", "2024-25", "2023-24", "2022-23", "2021-22",
	"2020-21", "2019-20", "2018-19", "2017-18", "2016-17",
	"2015-16", "2014-15", "2013-14", "2012-13", "2011-12",
	"2010-11", "2009-10", "2008-09", "2007-08", "2006-07",
	"2005-06", "2004-05", "2003-04", "2002-03", "2001-02",
}

// ValidateSeason checks the provider's season label format, e.g. "2024-25".
// The second part must be the two-digit year following the first.
func ValidateSeason(s string) error {
	if len(s) != 7 || s[4] != '-' {
		return fmt.Errorf("season %q: want YYYY-YY", s)
	}
	start, err := strconv.Atoi(s[:4])
	if err != nil {
		return fmt.Errorf("season %q: %w", s, err)
	}
	end, err := strconv.Atoi(s[5:])
	if err != nil {
		return fmt.Errorf("season %q: %w", s, err)
	}
	if (start+1)%100 != end {
		return fmt.Errorf("season %q: %d is not followed by %02d", s, start, end)
	}
	return nil
}

package cache

// IndicatorPrefix is the literal prefix shared by every indicator cache key.
// Bulk eviction scans for this prefix, so it must stay in sync with Key.
const IndicatorPrefix = "indicator_"

// Key builds the cache key for one (series, date range) request.
//
// The format "indicator_<seriesID>_<firstDate>_<lastDate>" is part of the
// external contract: keys are stable across restarts so a persisted cache
// stays warm, and ClearByPrefix(IndicatorPrefix) must match every key this
// function ever produced.
func Key(seriesID, firstDate, lastDate string) string {
	return IndicatorPrefix + seriesID + "_" + firstDate + "_" + lastDate
}

package pipeline

import "time"

// nowUTC is swapped in tests to pin catalog timestamps.
var nowUTC = func() time.Time { return time.Now().UTC() }

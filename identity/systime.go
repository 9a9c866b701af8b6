/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package identity

import "time"

/*
SysTime is a millisecond-precision timestamp, used for created_time,
modified_time and uuid derivation. A plain int64-backed type (rather than
krotik/common/timeutil's formatted-string timestamps) is used here
because uuid derivation needs an exact millisecond integer, not a
formatted string.
*/
type SysTime int64

/*
Now returns the current time as a SysTime.
*/
func Now() SysTime {
	return SysTime(time.Now().UnixMilli())
}

/*
Millis returns the raw millisecond value.
*/
func (t SysTime) Millis() int64 {
	return int64(t)
}

/*
Time converts back to a time.Time.
*/
func (t SysTime) Time() time.Time {
	return time.UnixMilli(int64(t))
}

/*
String formats the timestamp as RFC3339.
*/
func (t SysTime) String() string {
	return t.Time().UTC().Format(time.RFC3339Nano)
}

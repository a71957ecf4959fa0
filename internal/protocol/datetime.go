// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"math"
	"time"
)

// Null-value sentinels for the fixed-width date/time field types (spec
// §4.3 "null values are encoded in-band for fixed length types").
const (
	realNullValue        uint32 = ^uint32(0)
	doubleNullValue      uint64 = ^uint64(0)
	longdateNullValue    int64  = 3155380704000000001
	seconddateNullValue  int64  = 315538070401
	daydateNullValue     int32  = 3652062
	secondtimeNullValue  int32  = 86401
)

// Byte length indicators preceding a variable length field's payload
// (spec §4.3 "variable length fields").
const (
	bytesLenIndNullValue byte = 255
	bytesLenIndSmall     byte = 245
	bytesLenIndMedium    byte = 246
	bytesLenIndBig       byte = 247
)

// julianHdb is the Julian day number of 1 January 0001 00:00:00 minus one -
// HDB daydate counts days from that epoch.
const julianHdb = 1721423

// Longdate
func convertLongdateToTime(longdate int64) time.Time {
	const dayfactor = 10000000 * 24 * 60 * 60
	longdate--
	d := (longdate % dayfactor) * 100
	t := convertDaydateToTime((longdate / dayfactor) + 1)
	return t.Add(time.Duration(d))
}

// nanosecond: HDB - 7 digits precision (not 9 digits)
func convertTimeToLongdate(t time.Time) int64 {
	return (((((((convertTimeToDayDate(t)-1)*24)+int64(t.Hour()))*60)+int64(t.Minute()))*60)+int64(t.Second()))*1e7 + int64(t.Nanosecond()/1e2) + 1
}

// Seconddate
func convertSeconddateToTime(seconddate int64) time.Time {
	const dayfactor = 24 * 60 * 60
	seconddate--
	d := (seconddate % dayfactor) * 1e9
	t := convertDaydateToTime((seconddate / dayfactor) + 1)
	return t.Add(time.Duration(d))
}
func convertTimeToSeconddate(t time.Time) int64 {
	return (((((convertTimeToDayDate(t)-1)*24)+int64(t.Hour()))*60)+int64(t.Minute()))*60 + int64(t.Second()) + 1
}

// Daydate
func convertDaydateToTime(daydate int64) time.Time {
	return julianDayToTime(int(daydate) + julianHdb)
}
func convertTimeToDayDate(t time.Time) int64 {
	return int64(timeToJulianDay(t) - julianHdb)
}

// Secondtime
func convertSecondtimeToTime(secondtime int) time.Time {
	return time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(int64(secondtime-1) * 1e9))
}
func convertTimeToSecondtime(t time.Time) int {
	return (t.Hour()*60+t.Minute())*60 + t.Second() + 1
}

// gregorianReform is the day the Julian Day Number scheme switches from
// the proleptic Julian to the Gregorian calendar - 15 October 1582.
const gregorianReform = 588829 // day + 31*(month+12*year) threshold (JULDAY form)
const gregorianReformJD = 2299161

// timeToJulianDay converts a time.Time's calendar date into its Julian
// Day Number, switching from the proleptic Julian to the Gregorian
// calendar at the 1582 reform (the historical JULDAY algorithm, as
// ubiquitously ported from Numerical Recipes in C).
func timeToJulianDay(t time.Time) int {
	t = t.UTC()
	year, month, day := t.Year(), int(t.Month()), t.Day()

	var jy, jm int
	if month > 2 {
		jy = year
		jm = month + 1
	} else {
		jy = year - 1
		jm = month + 13
	}

	jul := int(math.Floor(365.25*float64(jy))) + int(math.Floor(30.6001*float64(jm))) + day + 1720995
	if day+31*(month+12*year) >= gregorianReform {
		ja := int(0.01 * float64(jy))
		jul += 2 - ja + int(0.25*float64(ja))
	}
	return jul
}

// julianDayToTime is the inverse of timeToJulianDay (the historical
// CALDAT algorithm), returning midnight UTC of the corresponding
// calendar date.
func julianDayToTime(jd int) time.Time {
	var ja int
	if jd >= gregorianReformJD {
		jalpha := int((float64(jd-1867216) - 0.25) / 36524.25)
		ja = jd + 1 + jalpha - int(0.25*float64(jalpha))
	} else {
		ja = jd
	}

	jb := ja + 1524
	jc := int(6680.0 + (float64(jb-2439870)-122.1)/365.25)
	jd2 := int(float64(365*jc) + 0.25*float64(jc))
	je := int(float64(jb-jd2) / 30.6001)

	day := jb - jd2 - int(30.6001*float64(je))
	month := je - 1
	if month > 12 {
		month -= 12
	}
	year := jc - 4715
	if month > 2 {
		year--
	}
	if year <= 0 {
		year--
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

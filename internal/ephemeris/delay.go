package ephemeris

import (
	"math"

	"gpssim/internal/constants"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
)

// IonosphericDelay implements the single-frequency Klobuchar model,
// grounded verbatim on the teacher's IonModel (src/common.go),
// returning a delay in meters. Returns 0 when iono.Enable is false or
// the satellite is below the horizon.
func IonosphericDelay(iono *IonoUtc, userPos geodesy.LLH, az, el float64, t gtime.GpsTime) float64 {
	if !iono.Enable || el <= 0 {
		return 0
	}

	alpha := iono.Alpha
	beta := iono.Beta

	psi := 0.0137/(el/math.Pi+0.11) - 0.022

	phi := userPos.Lat/math.Pi + psi*math.Cos(az)
	if phi > 0.416 {
		phi = 0.416
	} else if phi < -0.416 {
		phi = -0.416
	}
	lam := userPos.Lon/math.Pi + psi*math.Sin(az)/math.Cos(phi*math.Pi)

	phi += 0.064 * math.Cos((lam-1.617)*math.Pi)

	tt := 43200.0*lam + t.Sec
	tt -= math.Floor(tt/86400.0) * 86400.0

	f := 1.0 + 16.0*math.Pow(0.53-el/math.Pi, 3.0)

	amp := alpha[0] + phi*(alpha[1]+phi*(alpha[2]+phi*alpha[3]))
	per := beta[0] + phi*(beta[1]+phi*(beta[2]+phi*beta[3]))
	if amp < 0 {
		amp = 0
	}
	if per < 72000.0 {
		per = 72000.0
	}

	x := 2.0 * math.Pi * (tt - 50400.0) / per
	if math.Abs(x) < 1.57 {
		return constants.CLIGHT * f * (5e-9 + amp*(1.0+x*x*(-0.5+x*x/24.0)))
	}
	return constants.CLIGHT * f * 5e-9
}

// TroposphericDelay implements the Saastamoinen model, grounded on the
// teacher's TropModel (humidity fixed at 0.7, matching its default).
// Always applied, per spec.md §4.1.
func TroposphericDelay(lat, el, userHeightM float64) float64 {
	if el <= 0 {
		return 0
	}
	const (
		humidity = 0.7
		temp0    = 15.0
	)

	hgt := userHeightM
	if hgt < 0 {
		hgt = 0
	}

	pres := 1013.25 * math.Pow(1.0-2.2557e-5*hgt, 5.2568)
	temp := temp0 - 6.5e-3*hgt + 273.16
	e := 6.108 * humidity * math.Exp((17.15*temp-4684.0)/(temp-38.45))

	z := math.Pi/2.0 - el
	trph := 0.0022768 * pres / (1.0 - 0.00266*math.Cos(2.0*lat) - 0.00028*hgt/1e3) / math.Cos(z)
	trpw := 0.002277 * (1255.0/temp + 0.05) * e / math.Cos(z)
	return trph + trpw
}

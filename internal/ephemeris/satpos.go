package ephemeris

import (
	"math"

	"gpssim/internal/constants"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/trace"
)

// State is the result of sv_position: satellite position/velocity in
// ECEF and the clock bias/drift at time t.
type State struct {
	Pos      geodesy.ECEF
	Vel      geodesy.ECEF // m/s
	ClockSec float64      // clock bias (s)
	ClockDot float64      // clock drift (s/s)
}

// ClockBias computes the SV clock polynomial correction at time t,
// minus Tgd, with the 2-iteration refinement the teacher's Eph2Clk
// performs (f0+f1*t+f2*t^2 is iterated against itself since t is
// itself a function of the correction).
func ClockBias(eph *Ephemeris, t gtime.GpsTime) float64 {
	ts := gtime.Diff(t, eph.TOC)
	tt := ts
	for i := 0; i < 2; i++ {
		tt = ts - (eph.F0 + eph.F1*tt + eph.F2*tt*tt)
	}
	return eph.F0 + eph.F1*tt + eph.F2*tt*tt - eph.Tgd
}

// SvPosition implements sv_position: standard ICD Kepler-orbit
// propagation plus the relativistic clock correction, with position
// and velocity both obtained analytically (no finite differences),
// grounded on the teacher's Eph2Pos generalized to GPS-only and
// extended with the standard IS-GPS-200 velocity partials.
func SvPosition(eph *Ephemeris, t gtime.GpsTime) State {
	mu := constants.MuGPS
	omgE := constants.OMGE

	tk := gtime.WrapToWeekHalf(gtime.Diff(t, eph.TOE))

	a := eph.A()
	n0 := math.Sqrt(mu / (a * a * a))
	n := n0 + eph.DeltaN
	m := eph.M0 + n*tk

	e := eph.E
	ek := m
	prev := 0.0
	converged := false
	iter := 0
	for iter = 0; iter < constants.MaxIterKepler; iter++ {
		prev = ek
		ek -= (ek - e*math.Sin(ek) - m) / (1.0 - e*math.Cos(ek))
		if math.Abs(ek-prev) < constants.RtolKepler {
			converged = true
			iter++
			break
		}
	}
	if !converged {
		trace.Trace(2, "sv_position: kepler iteration overflow sat=%d\n", eph.PRN)
	}

	sinE, cosE := math.Sincos(ek)
	edot := n / (1.0 - e*cosE)

	nu := math.Atan2(math.Sqrt(1.0-e*e)*sinE, cosE-e)
	nudot := edot * math.Sqrt(1.0-e*e) / (1.0 - e*cosE)

	phi := nu + eph.Omega
	phidot := nudot
	sin2u, cos2u := math.Sincos(2.0 * phi)

	du := eph.Cus*sin2u + eph.Cuc*cos2u
	dr := eph.Crs*sin2u + eph.Crc*cos2u
	di := eph.Cis*sin2u + eph.Cic*cos2u

	ddu := 2.0 * phidot * (eph.Cus*cos2u - eph.Cuc*sin2u)
	ddr := 2.0 * phidot * (eph.Crs*cos2u - eph.Crc*sin2u)
	ddi := 2.0 * phidot * (eph.Cis*cos2u - eph.Cic*sin2u)

	u := phi + du
	r := a*(1.0-e*cosE) + dr
	i := eph.I0 + eph.IDot*tk + di

	udot := phidot + ddu
	rdot := a*e*edot*sinE + ddr
	idot := eph.IDot + ddi

	sinu, cosu := math.Sincos(u)
	xp := r * cosu
	yp := r * sinu
	xpdot := rdot*cosu - r*udot*sinu
	ypdot := rdot*sinu + r*udot*cosu

	toeSec := eph.TOE.Sec
	omega := eph.OMG0 + (eph.OMGDot-omgE)*tk - omgE*toeSec
	omegaDot := eph.OMGDot - omgE

	sinO, cosO := math.Sincos(omega)
	cosi, sini := math.Cos(i), math.Sin(i)

	pos := geodesy.ECEF{
		X: xp*cosO - yp*cosi*sinO,
		Y: xp*sinO + yp*cosi*cosO,
		Z: yp * sini,
	}

	vel := geodesy.ECEF{
		X: -xp*omegaDot*sinO + xpdot*cosO - ypdot*sinO*cosi - yp*(omegaDot*cosO*cosi-idot*sinO*sini),
		Y: xp*omegaDot*cosO + xpdot*sinO + ypdot*cosO*cosi - yp*(omegaDot*sinO*cosi+idot*cosO*sini),
		Z: ypdot*sini + yp*idot*cosi,
	}

	clk := ClockBias(eph, t)
	// relativistic correction, not included in ClockBias's polynomial.
	clk -= 2.0 * math.Sqrt(mu*a) * e * sinE / (constants.CLIGHT * constants.CLIGHT)
	clkDot := eph.F1 + 2.0*eph.F2*gtime.Diff(t, eph.TOC) -
		2.0*math.Sqrt(mu*a)*e*cosE*edot/(constants.CLIGHT*constants.CLIGHT)

	return State{Pos: pos, Vel: vel, ClockSec: clk, ClockDot: clkDot}
}

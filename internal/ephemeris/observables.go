package ephemeris

import (
	"math"

	"gpssim/internal/constants"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
)

// Observables is the output of compute_range: the quantities the
// channel model needs each epoch.
type Observables struct {
	Range     float64 // geometric range, Sagnac-corrected (m)
	RangeRate float64 // m/s, positive = receding
	Azimuth   float64 // rad, 0..2pi from north
	Elevation float64 // rad, -pi/2..pi/2
	LOS       geodesy.ECEF
}

// rotateZ rotates v about the Z axis by angle theta (Earth-rotation
// compensation during signal transit).
func rotateZ(v geodesy.ECEF, theta float64) geodesy.ECEF {
	s, c := math.Sincos(theta)
	return geodesy.ECEF{
		X: c*v.X + s*v.Y,
		Y: -s*v.X + c*v.Y,
		Z: v.Z,
	}
}

// ComputeRange implements compute_range: it iterates the
// signal-transit-time correction, rotates the satellite's
// transmission-time ECEF position into the receiver's reception-time
// frame by the Sagnac angle omegaE*tau, and derives range, range-rate,
// and local azimuth/elevation.
func ComputeRange(eph *Ephemeris, t gtime.GpsTime, userPos geodesy.LLH, userECEF geodesy.ECEF) Observables {
	st := SvPosition(eph, t)

	tau := 0.0
	var svPosRot geodesy.ECEF
	for iter := 0; iter < 10; iter++ {
		tTx := gtime.Add(t, -tau)
		stTx := SvPosition(eph, tTx)
		svPosRot = rotateZ(stTx.Pos, constants.OMGE*tau)
		newTau := svPosRot.Sub(userECEF).Norm() / constants.CLIGHT
		if math.Abs(newTau-tau) < 1e-9 {
			tau = newTau
			break
		}
		tau = newTau
	}

	diff := svPosRot.Sub(userECEF)
	rng := diff.Norm()
	los := diff.Scale(1.0 / rng)

	// Range-rate = los . (sv_vel - user_vel), los pointing from the
	// user to the satellite; user assumed static within the epoch here
	// (the scheduler supplies the per-epoch user velocity separately
	// when motion is dynamic).
	rangeRate := los.Dot(st.Vel)

	az, el := geodesy.AzEl(userPos, los)

	return Observables{
		Range:     rng,
		RangeRate: rangeRate,
		Azimuth:   az,
		Elevation: el,
		LOS:       los,
	}
}

// ComputeRangeRate folds in receiver velocity for dynamic-mode users:
// range-rate = los . (sv_vel - user_vel).
func ComputeRangeRate(obs Observables, svVel, userVel geodesy.ECEF) float64 {
	rel := svVel.Sub(userVel)
	return obs.LOS.Dot(rel)
}

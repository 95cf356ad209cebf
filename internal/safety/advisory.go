package safety

import "alcyxob/coaching-platform/internal/domain"

// FatigueAdvisoryAbove is the fatigue level past which strength work should become mobility work.
const FatigueAdvisoryAbove = 7

// Advisory is a non-blocking safety hint shown to the client.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	advisoryHighFatigue = Advisory{
		Code:    "high_fatigue",
		Message: "Fatiga alta: sustituye hoy el trabajo de fuerza por movilidad suave.",
	}
	advisoryNeuropathy = Advisory{
		Code:    "neuropathy_tingling",
		Message: "Hormigueo: evita cargas en las manos si no sientes bien el agarre y vigila el equilibrio.",
	}
	advisoryTightness = Advisory{
		Code:    "tightness",
		Message: "Tirantez: reduce el rango de movimiento y no fuerces estiramientos en la zona afectada.",
	}
	advisoryBonePain = Advisory{
		Code:    "bone_metastasis_pain",
		Message: "Dolor óseo: evita impactos y cargas sobre la zona; si el dolor aumenta, detén la sesión.",
	}
)

// EffortRange is the target RPE band of an RPE type.
type EffortRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TargetEffort returns the RPE band the client should aim for.
func TargetEffort(t domain.RPEType) (EffortRange, bool) {
	switch t {
	case domain.RPEVerde:
		return EffortRange{Min: 7, Max: 8}, true
	case domain.RPEAmarillo:
		return EffortRange{Min: 4, Max: 5}, true
	default:
		return EffortRange{}, false
	}
}

func VitalsAdvisories(v domain.Vitals) []Advisory {
	advisories := []Advisory{}
	if v.Fatigue > FatigueAdvisoryAbove {
		advisories = append(advisories, advisoryHighFatigue)
	}
	return advisories
}

func SequelaeAdvisories(s domain.Sequelae) []Advisory {
	advisories := []Advisory{}
	if s.NeuropathyTingling {
		advisories = append(advisories, advisoryNeuropathy)
	}
	if s.Tightness {
		advisories = append(advisories, advisoryTightness)
	}
	if s.BoneMetastasisPain {
		advisories = append(advisories, advisoryBonePain)
	}
	return advisories
}

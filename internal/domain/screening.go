package domain

// RPEType is the effort band the client picks before a session.
type RPEType string

const (
	RPEVerde    RPEType = "verde"    // target effort 7-8/10
	RPEAmarillo RPEType = "amarillo" // target effort 4-5/10
)

func (t RPEType) IsValid() bool {
	return t == RPEVerde || t == RPEAmarillo
}

// Exclusions is the step one checklist of the safety screening.
// Systolic and Diastolic are kept as typed, BPUncontrolled is derived from them.
type Exclusions struct {
	Fever           bool   `bson:"fever" json:"fever"`
	Malaise         bool   `bson:"malaise" json:"malaise"`
	RecentBloodTest bool   `bson:"recentBloodTest" json:"recentBloodTest"`
	Systolic        string `bson:"systolic,omitempty" json:"systolic,omitempty"`
	Diastolic       string `bson:"diastolic,omitempty" json:"diastolic,omitempty"`
	BPUncontrolled  bool   `bson:"bpUncontrolled" json:"bpUncontrolled"`
}

// Vitals is the pre-workout snapshot captured in step two.
type Vitals struct {
	Fatigue     int     `bson:"fatigue" json:"fatigue"` // 0-10
	RPEType     RPEType `bson:"rpeType" json:"rpeType"`
	Oxygen      string  `bson:"oxygen,omitempty" json:"oxygen,omitempty"`
	Pulse       string  `bson:"pulse,omitempty" json:"pulse,omitempty"`
	BPSystolic  string  `bson:"bpSystolic,omitempty" json:"bpSystolic,omitempty"`
	BPDiastolic string  `bson:"bpDiastolic,omitempty" json:"bpDiastolic,omitempty"`
}

// Sequelae is the step three advisory checklist. None of the flags block a session.
type Sequelae struct {
	NeuropathyTingling bool `bson:"neuropathyTingling" json:"neuropathyTingling"`
	Tightness          bool `bson:"tightness" json:"tightness"`
	BoneMetastasisPain bool `bson:"boneMetastasisPain" json:"boneMetastasisPain"`
}

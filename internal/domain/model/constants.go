package model

// CalculationMethodDiyanet is the Aladhan calculation method id used by the
// Turkish Diyanet İşleri Başkanlığı. The method is fixed for the whole service.
const CalculationMethodDiyanet = 13

// CityCenterMarker is the reserved district name that designates a city's
// central district in the source catalog.
const CityCenterMarker = "MERKEZ"

// Canonical timing field names as returned by the upstream API.
const (
	TimingFajr    = "Fajr"
	TimingSunrise = "Sunrise"
	TimingDhuhr   = "Dhuhr"
	TimingAsr     = "Asr"
	TimingMaghrib = "Maghrib"
	TimingIsha    = "Isha"
)

// RequiredTimings are the five prayer times every day record must carry.
var RequiredTimings = []string{TimingFajr, TimingDhuhr, TimingAsr, TimingMaghrib, TimingIsha}

// DisplayTimings adds Sunrise, which single-day responses must also include.
var DisplayTimings = []string{TimingFajr, TimingSunrise, TimingDhuhr, TimingAsr, TimingMaghrib, TimingIsha}

// Provenance tags for the tiered retrieval pipeline.
const (
	SourceCache       = "cache"
	SourceMonthlyData = "monthly_data"
	SourceAPI         = "api"
)

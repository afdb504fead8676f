package record

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// DataSensitivity is the most sensitive data type the application handles.
type DataSensitivity string

const (
	PaymentCardData  DataSensitivity = "payment_card_data"
	RegulatedPII     DataSensitivity = "regulated_pii"
	CustomerPII      DataSensitivity = "customer_pii"
	InternalBusiness DataSensitivity = "internal_business"
	PublicData       DataSensitivity = "public_data"
)

var DataSensitivityValues = []DataSensitivity{PaymentCardData, RegulatedPII, CustomerPII, InternalBusiness, PublicData}

// DowntimeImpact is the business impact of a four hour outage.
type DowntimeImpact string

const (
	RevenueLossCritical DowntimeImpact = "revenue_loss_critical"
	MajorDisruption     DowntimeImpact = "major_disruption"
	ProductivityImpact  DowntimeImpact = "productivity_impact"
	MinimalImpact       DowntimeImpact = "minimal_impact"
)

var DowntimeImpactValues = []DowntimeImpact{RevenueLossCritical, MajorDisruption, ProductivityImpact, MinimalImpact}

// IntegrityImpact is the impact of corrupted data.
type IntegrityImpact string

const (
	FinancialHarm           IntegrityImpact = "financial_harm"
	DecisionImpact          IntegrityImpact = "decision_impact"
	OperationalInefficiency IntegrityImpact = "operational_inefficiency"
	LowImpact               IntegrityImpact = "low_impact"
)

var IntegrityImpactValues = []IntegrityImpact{FinancialHarm, DecisionImpact, OperationalInefficiency, LowImpact}

// BreachConsequence is the worst case of unauthorized access.
type BreachConsequence string

const (
	PaymentExposure      BreachConsequence = "payment_exposure"
	PIIBreach            BreachConsequence = "pii_breach"
	CustomerDataExposure BreachConsequence = "customer_data_exposure"
	InternalExposure     BreachConsequence = "internal_exposure"
	PublicOnly           BreachConsequence = "public_only"
)

var BreachConsequenceValues = []BreachConsequence{PaymentExposure, PIIBreach, CustomerDataExposure, InternalExposure, PublicOnly}

// DisasterRecovery is the required recovery time after total loss.
type DisasterRecovery string

const (
	FourHours       DisasterRecovery = "four_hours"
	TwentyFourHours DisasterRecovery = "twentyfour_hours"
	ThreeDays       DisasterRecovery = "three_days"
	OneWeek         DisasterRecovery = "one_week"
)

var DisasterRecoveryValues = []DisasterRecovery{FourHours, TwentyFourHours, ThreeDays, OneWeek}

// SystemDependencies is how many other systems depend on the application.
type SystemDependencies string

const (
	HighDependency     SystemDependencies = "high_dependency"
	ModerateDependency SystemDependencies = "moderate_dependency"
	LowDependency      SystemDependencies = "low_dependency"
	Standalone         SystemDependencies = "standalone"
)

var SystemDependenciesValues = []SystemDependencies{HighDependency, ModerateDependency, LowDependency, Standalone}

// ResilienceCategory is the CMDB resilience tier, "0" being the most
// critical. It decodes from a JSON string or a whole number.
type ResilienceCategory string

const (
	Resilience0 ResilienceCategory = "0"
	Resilience1 ResilienceCategory = "1"
	Resilience2 ResilienceCategory = "2"
	Resilience3 ResilienceCategory = "3"
)

var ResilienceCategoryValues = []ResilienceCategory{Resilience0, Resilience1, Resilience2, Resilience3}

func (r *ResilienceCategory) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ResilienceCategory(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(*r)}
	}
	*r = ResilienceCategory(strconv.FormatInt(n, 10))
	return nil
}

// ChangeSize is the size of the change taken from the git diff.
type ChangeSize string

const (
	SizeXS ChangeSize = "XS"
	SizeS  ChangeSize = "S"
	SizeM  ChangeSize = "M"
	SizeL  ChangeSize = "L"
	SizeXL ChangeSize = "XL"
)

var ChangeSizeValues = []ChangeSize{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// TestDepth is the deepest test stage the pipeline ran.
type TestDepth string

const (
	TestsNone            TestDepth = "NONE"
	TestsUnitOnly        TestDepth = "UNIT_ONLY"
	TestsUnitIntegration TestDepth = "UNIT_INTEGRATION"
	TestsFull            TestDepth = "FULL"
	TestsFullPlusChaos   TestDepth = "FULL_PLUS_CHAOS"
)

var TestDepthValues = []TestDepth{TestsNone, TestsUnitOnly, TestsUnitIntegration, TestsFull, TestsFullPlusChaos}

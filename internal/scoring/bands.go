package scoring

import (
	"fmt"

	"MorningRadar/internal/model"
)

// DefaultBands is the 5-level mapping, ascending by lower bound.
var DefaultBands = []model.Band{
	{Min: 0, Label: "매우 좋음", Action: "시장 지표가 안정적입니다. 보유 종목을 유지하세요.", Color: "green"},
	{Min: 20, Label: "양호", Action: "큰 위험 신호는 없습니다. 계획대로 분할 매수를 이어가세요.", Color: "teal"},
	{Min: 40, Label: "주의", Action: "경고등이 켜졌습니다. 신규 매수는 자제하고 시장을 지켜보세요.", Color: "yellow"},
	{Min: 60, Label: "위험", Action: "변동성 큰 종목은 관망하고 현금 비중을 늘리세요.", Color: "orange"},
	{Min: 80, Label: "붕괴", Action: "방어가 최우선입니다. 레버리지를 정리하고 현금을 확보하세요.", Color: "red"},
}

// DefaultEscalations lets a single severe indicator lift the whole score.
var DefaultEscalations = []model.Escalation{
	{At: 80, Floor: 60},
	{At: 60, Floor: 40},
}

func validateBands(bands []model.Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("at least one band is required")
	}
	if bands[0].Min != 0 {
		return fmt.Errorf("first band must start at 0, got %d", bands[0].Min)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min <= bands[i-1].Min {
			return fmt.Errorf("band %q: lower bound %d must be above %d", bands[i].Label, bands[i].Min, bands[i-1].Min)
		}
		if bands[i].Min > 100 {
			return fmt.Errorf("band %q: lower bound %d exceeds 100", bands[i].Label, bands[i].Min)
		}
	}
	return nil
}

// mapBand returns the highest band whose lower bound is <= score.
func mapBand(bands []model.Band, score int) model.Band {
	for i := len(bands) - 1; i >= 0; i-- {
		if score >= bands[i].Min {
			return bands[i]
		}
	}
	return bands[0]
}

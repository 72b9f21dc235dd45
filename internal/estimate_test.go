package internal

import "testing"

func TestMapTransfer(t *testing.T) {
	tests := []struct {
		raw     float64
		percent float64
		stage   Stage
	}{
		{raw: 0, percent: 0, stage: StageAudio},
		{raw: 10, percent: 5, stage: StageAudio},
		{raw: 20, percent: 10, stage: StageAudio},
		{raw: 55, percent: 30, stage: StageVideo},
		{raw: 89.9, percent: 49.94285714285714, stage: StageVideo},
		{raw: 90, percent: 50, stage: StageMerging},
		{raw: 100, percent: 50, stage: StageMerging},
		{raw: 150, percent: 50, stage: StageMerging},
		{raw: -5, percent: 0, stage: StageAudio},
	}

	for _, tt := range tests {
		got := MapTransfer(tt.raw)
		if diff := got.Percent - tt.percent; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("MapTransfer(%v).Percent = %v, want %v", tt.raw, got.Percent, tt.percent)
		}
		if got.Stage != tt.stage {
			t.Errorf("MapTransfer(%v).Stage = %q, want %q", tt.raw, got.Stage, tt.stage)
		}
	}
}

func TestMapTransferMonotonic(t *testing.T) {
	prev := -1.0
	for raw := 0.0; raw <= 100; raw += 0.5 {
		got := MapTransfer(raw).Percent
		if got < prev {
			t.Fatalf("MapTransfer(%v) = %v, below previous %v", raw, got, prev)
		}
		if got > videoDisplayedEnd {
			t.Fatalf("MapTransfer(%v) = %v, above %v", raw, got, videoDisplayedEnd)
		}
		prev = got
	}
}

func TestProgressAdvance(t *testing.T) {
	p := Progress{}

	p = p.Advance(30, StageVideo)
	if p.Percent != 30 || p.Stage != StageVideo {
		t.Fatalf("got %+v, want 30/video", p)
	}

	// lower values never move the estimate back
	p = p.Advance(10, StageNone)
	if p.Percent != 30 {
		t.Errorf("percent = %v after lower value, want 30", p.Percent)
	}
	if p.Stage != StageVideo {
		t.Errorf("stage = %q, empty stage should keep the current one", p.Stage)
	}

	p = p.Advance(250, StageMerging)
	if p.Percent != 100 {
		t.Errorf("percent = %v, want clamp to 100", p.Percent)
	}
	if p.Stage != StageMerging {
		t.Errorf("stage = %q, want merging", p.Stage)
	}
}

func TestRawPercent(t *testing.T) {
	if got := RawPercent(50, 200); got != 25 {
		t.Errorf("RawPercent(50, 200) = %v, want 25", got)
	}
	if got := RawPercent(50, -1); got != -1 {
		t.Errorf("RawPercent with unknown total = %v, want -1", got)
	}
	if got := RawPercent(0, 0); got != -1 {
		t.Errorf("RawPercent with zero total = %v, want -1", got)
	}
}

func TestStepToward(t *testing.T) {
	tests := []struct {
		current, step, ceiling, want float64
	}{
		{0, 5, 95, 5},
		{90, 5, 95, 95},
		{93, 5, 95, 95},
		{95, 5, 95, 95},
		{97, 1, 95, 97},
		{98.5, 1, 99, 99},
	}
	for _, tt := range tests {
		if got := stepToward(tt.current, tt.step, tt.ceiling); got != tt.want {
			t.Errorf("stepToward(%v, %v, %v) = %v, want %v", tt.current, tt.step, tt.ceiling, got, tt.want)
		}
	}
}

func TestServerProgressStage(t *testing.T) {
	tests := []struct {
		event ServerProgress
		want  Stage
	}{
		{ServerProgress{Progress: 5, Phase: "audio"}, StageAudio},
		{ServerProgress{Progress: 40, Phase: "Downloading"}, StageVideo},
		{ServerProgress{Progress: 70, Phase: "merging"}, StageMerging},
		{ServerProgress{Progress: 5}, StageAudio},
		{ServerProgress{Progress: 30}, StageVideo},
		{ServerProgress{Progress: 80}, StageMerging},
	}
	for _, tt := range tests {
		if got := tt.event.Stage(); got != tt.want {
			t.Errorf("%+v.Stage() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

package service

import (
	"strings"
	"testing"

	"phongtro/internal/model"
)

func TestPromptBuilder_NoResults(t *testing.T) {
	b := NewPromptBuilder(5)

	prompt := b.Build("tìm phòng ở sao hỏa", nil, model.Criteria{RentalRequest: true})

	if !strings.Contains(prompt, "KHÔNG CÓ BÀI ĐĂNG NÀO PHÙ HỢP") {
		t.Error("Expected the no-results template")
	}
	if !strings.Contains(prompt, "tìm phòng ở sao hỏa") {
		t.Error("Expected the question to be embedded in the prompt")
	}
	if strings.Contains(prompt, ShowRoomsSentinel) {
		t.Error("No-results template must not teach the show-rooms directive")
	}
}

func TestPromptBuilder_RentalRequest(t *testing.T) {
	b := NewPromptBuilder(5)

	rooms := []model.Room{room("r1", nil), room("r2", nil)}
	prompt := b.Build("tìm phòng trọ quận 3", rooms, model.Criteria{RentalRequest: true})

	if !strings.Contains(prompt, ShowRoomsSentinel) {
		t.Error("Rental-request template must include the directive format")
	}
	if !strings.Contains(prompt, `"roomIds": ["r1","r2"]`) {
		t.Errorf("Expected candidate ids in the directive example, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "--- Bài đăng #1 ---") {
		t.Error("Expected formatted room blocks")
	}
	if !strings.Contains(prompt, "không gọi chung là 'phòng trọ'") {
		t.Error("Expected the category naming rule")
	}
}

func TestPromptBuilder_RentalRequestCapsRooms(t *testing.T) {
	b := NewPromptBuilder(2)

	rooms := []model.Room{room("r1", nil), room("r2", nil), room("r3", nil)}
	prompt := b.Build("tìm phòng", rooms, model.Criteria{RentalRequest: true})

	if strings.Contains(prompt, "r3") {
		t.Error("Expected rooms beyond the cap to be excluded from the prompt")
	}
	if !strings.Contains(prompt, "--- Bài đăng #2 ---") {
		t.Error("Expected two room blocks")
	}
}

func TestPromptBuilder_LocationAloneSelectsRentalTemplate(t *testing.T) {
	b := NewPromptBuilder(5)

	rooms := []model.Room{room("r1", nil)}
	prompt := b.Build("khu này thế nào", rooms, model.Criteria{Location: "quận 3"})

	if !strings.Contains(prompt, ShowRoomsSentinel) {
		t.Error("A question with an extracted location should use the rental-request template")
	}
}

func TestPromptBuilder_Generic(t *testing.T) {
	b := NewPromptBuilder(5)

	rooms := []model.Room{room("r1", nil)}
	prompt := b.Build("giá thuê trung bình thế nào", rooms, model.Criteria{})

	if strings.Contains(prompt, ShowRoomsSentinel) {
		t.Error("Generic template must not teach the show-rooms directive")
	}
	if !strings.Contains(prompt, "--- Bài đăng #1 ---") {
		t.Error("Expected formatted room blocks in the generic template")
	}
}

func TestPromptBuilder_FormatRoomsFallbacks(t *testing.T) {
	b := NewPromptBuilder(5)

	bare := room("r1", func(r *model.Room) {
		r.Options = nil
		r.Description = ""
	})
	prompt := b.Build("tìm phòng", []model.Room{bare}, model.Criteria{RentalRequest: true})

	if !strings.Contains(prompt, "Tiện nghi: Không có") {
		t.Error("Expected amenity fallback text")
	}
	if !strings.Contains(prompt, "Chi tiết: Không có mô tả") {
		t.Error("Expected description fallback text")
	}
}

func TestTruncateRunes(t *testing.T) {
	s := strings.Repeat("ộ", 300)
	got := truncateRunes(s, 200)
	if len([]rune(got)) != 200 {
		t.Errorf("Expected 200 runes, got %d", len([]rune(got)))
	}

	short := "ngắn"
	if truncateRunes(short, 200) != short {
		t.Error("Short strings must pass through unchanged")
	}
}

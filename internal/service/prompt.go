package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"phongtro/internal/model"
)

// ShowRoomsSentinel marks the start of the embedded directive the model may
// emit when it wants the UI to render listing cards. Everything after it up
// to the end of the reply must be the directive JSON.
const ShowRoomsSentinel = "__SHOW_ROOMS__::"

// SystemInstructions is the assistant persona sent on the system channel
// when the completion provider supports one.
const SystemInstructions = "Bạn là một trợ lý chuyên nghiệp hỗ trợ tìm các loại hình nhà ở bao gồm phòng trọ, nhà nguyên căn, căn hộ chung cư, căn hộ mini và ở ghép. Trả lời tự nhiên và thân thiện. LUÔN LUÔN dựa trên thông tin từ các bài đăng được cung cấp để trả lời."

const descriptionLimit = 200

// PromptBuilder assembles the grounding prompt for one question from the
// filtered retrieval results.
type PromptBuilder struct {
	maxRooms int // rooms included in the rental-request template
}

// NewPromptBuilder creates a prompt builder that shows up to maxRooms posts
// in the rental-request template.
func NewPromptBuilder(maxRooms int) *PromptBuilder {
	return &PromptBuilder{maxRooms: maxRooms}
}

// Build selects a template by priority: no results, then rental request (or
// an extracted location) with results, then generic grounded question.
func (b *PromptBuilder) Build(question string, rooms []model.Room, criteria model.Criteria) string {
	if len(rooms) == 0 {
		return b.buildNoResults(question)
	}
	if criteria.RentalRequest || criteria.Location != "" {
		return b.buildRentalRequest(question, rooms)
	}
	return b.buildGeneric(question, rooms)
}

func (b *PromptBuilder) buildNoResults(question string) string {
	return fmt.Sprintf(`BẠN CHỈ ĐƯỢC TRẢ LỜI DỰA TRÊN THÔNG TIN TRONG DỮ LIỆU ĐƯỢC CUNG CẤP.

HIỆN TẠI KHÔNG CÓ BÀI ĐĂNG NÀO PHÙ HỢP VỚI YÊU CẦU CỦA NGƯỜI DÙNG.

Câu hỏi của khách hàng: %s

Xin lỗi bạn, hiện tại chúng tôi không có bài đăng nào phù hợp với yêu cầu của bạn.
Vui lòng thử lại với tiêu chí tìm kiếm khác (khu vực khác, mức giá khác, danh mục khác, hoặc điều chỉnh các tiện nghi yêu cầu).

Nếu bạn cần hỗ trợ thêm, vui lòng liên hệ đội ngũ hỗ trợ để được tư vấn cụ thể hơn.`, question)
}

func (b *PromptBuilder) buildRentalRequest(question string, rooms []model.Room) string {
	selected := rooms
	if len(selected) > b.maxRooms {
		selected = selected[:b.maxRooms]
	}

	ids := make([]string, len(selected))
	for i, room := range selected {
		ids[i] = room.ID
	}
	idsJSON, _ := json.Marshal(ids)

	return fmt.Sprintf(`BẠN CHỈ ĐƯỢC TRẢ LỜI DỰA TRÊN THÔNG TIN TRONG DỮ LIỆU ĐƯỢC CUNG CẤP DƯỚI ĐÂY.
KHÔNG ĐƯỢC bịa đặt thông tin hoặc đưa ra thông tin không có trong dữ liệu được cung cấp.

Dưới đây là các bài đăng phù hợp với yêu cầu của người dùng:
%s

Câu hỏi của khách hàng: %s

Vui lòng cung cấp thông tin về các bài đăng phù hợp với yêu cầu của khách hàng dựa hoàn toàn trên các bài đăng được cung cấp ở trên.
QUAN TRỌNG: Nếu bài đăng có danh mục là 'nhà nguyên căn', 'căn hộ chung cư', 'căn hộ mini', hoặc 'ở ghép', bạn PHẢI ghi rõ danh mục này trong câu trả lời, không gọi chung là 'phòng trọ'.
Nếu có thể, hãy sắp xếp theo mức độ phù hợp và đưa ra lựa chọn tốt nhất đầu tiên.
Nếu người dùng yêu cầu tìm bài đăng, hãy trả lời theo định dạng sau:
%s{"message": "Dưới đây là các bài đăng phù hợp với yêu cầu của bạn:", "roomIds": %s}

Nếu không thể trả lời dựa trên dữ liệu có sẵn, vui lòng thông báo rõ ràng cho người dùng biết.`,
		b.formatRooms(selected), question, ShowRoomsSentinel, string(idsJSON))
}

func (b *PromptBuilder) buildGeneric(question string, rooms []model.Room) string {
	return fmt.Sprintf(`BẠN CHỈ ĐƯỢC TRẢ LỜI DỰA TRÊN THÔNG TIN TRONG DỮ LIỆU ĐƯỢC CUNG CẤP DƯỚI ĐÂY.
KHÔNG ĐƯỢC bịa đặt thông tin hoặc đưa ra thông tin không có trong dữ liệu được cung cấp.

Dưới đây là một số bài đăng liên quan đến câu hỏi của người dùng:
%s

Câu hỏi của khách hàng: %s

Trả lời câu hỏi dựa trên thông tin từ các bài đăng được cung cấp. Nếu không liên quan đến bài đăng nào, trả lời một cách tự nhiên và thân thiện.`,
		b.formatRooms(rooms), question)
}

func (b *PromptBuilder) formatRooms(rooms []model.Room) string {
	formatted := make([]string, len(rooms))
	for i, room := range rooms {
		amenities := "Không có"
		if len(room.Options) > 0 {
			amenities = strings.Join(room.Options, ", ")
		}

		description := "Không có mô tả"
		if room.Description != "" {
			description = truncateRunes(room.Description, descriptionLimit) + "..."
		}

		formatted[i] = fmt.Sprintf(`--- Bài đăng #%d ---
ID: %s
Tiêu đề: %s
Giá: %s
Địa điểm: %s
Danh mục: %s
Diện tích: %s m²
Tiện nghi: %s
Chi tiết: %s
Độ tương đồng: %.2f
------------------------`,
			i+1, room.ID, room.Title, room.Price, room.Location,
			room.CategoryOrDefault(), room.Area, amenities, description, room.Similarity)
	}
	return strings.Join(formatted, "\n\n")
}

// truncateRunes cuts s to at most n runes without splitting a multibyte
// character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

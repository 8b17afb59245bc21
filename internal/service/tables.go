package service

import "phongtro/internal/model"

// Default heuristic tables for the marketplace. Each trigger list carries
// both accented and unaccented spellings since users type either. Kept as
// package data rather than inline literals so tests can build an Extractor
// with smaller tables.

var defaultCategoryTable = []KeywordGroup{
	{model.CategoryPhongTro, []string{"phòng trọ", "phong tro", "tro", "phong"}},
	{model.CategoryNhaNguyenCan, []string{"nhà nguyên căn", "nha nguyen can", "nhà nguyên can", "nha nguyen căn", "nguyên căn", "nguyen can"}},
	{model.CategoryCanHoChungCu, []string{"căn hộ chung cư", "can ho chung cu", "căn hộ", "can ho", "chung cư", "chung cu"}},
	{model.CategoryCanHoMini, []string{"căn hộ mini", "can ho mini", "căn hộ nhỏ", "can ho nho"}},
	{model.CategoryOGhep, []string{"ở ghép", "o ghep", "ghép", "ghep", "người ở ghép", "nguoi o ghep"}},
}

var defaultAmenityTable = []KeywordGroup{
	{"có gác", []string{"có gác", "co gac", "gác", "gac"}},
	{"có máy lạnh", []string{"có máy lạnh", "co may lanh", "máy lạnh", "may lanh", "điều hòa", "dieu hoa"}},
	{"đầy đủ nội thất", []string{"đầy đủ nội thất", "day du noi that", "đầy đủ", "day du", "nội thất", "noi that"}},
	{"không chung chủ", []string{"không chung chủ", "khong chung chu", "không chung", "khong chung"}},
	{"giờ giấc tự do", []string{"giờ giấc tự do", "gio gic tu do", "giờ tự do", "gio tu do"}},
	{"có ban công", []string{"có ban công", "co ban cong", "ban công", "ban cong"}},
	{"có nội thất", []string{"có nội thất", "co noi that", "nội thất", "noi that"}},
	{"có an ninh", []string{"có an ninh", "co an ninh", "an ninh", "bảo vệ", "bao ve"}},
	{"có thang máy", []string{"có thang máy", "co thang may", "thang máy", "thang may"}},
	{"có kệ bếp", []string{"có kệ bếp", "co ke bep", "kệ bếp", "ke bep"}},
	{"có máy giặt", []string{"có máy giặt", "co may giat", "máy giặt", "may giat"}},
	{"có hầm để xe", []string{"có hầm để xe", "co ham de xe", "hầm để xe", "ham de xe", "chỗ để xe", "cho de xe"}},
}

var defaultLocationKeywords = []string{
	"ở", "tại", "khu vực", "khu vuc", "quận", "phường", "huyện", "xã", "gần", "thuộc",
}

var defaultLocationStopWords = []string{
	"diện tích", "dien tich", "giá", "gia", "và", "va", "có", "co", "không", "khong",
	"m2", "triệu", "triệu/tháng", "triệu/thang", "tr/tháng", "tr/thang",
}

var defaultConnectiveWords = []string{
	"từ", "với", "có", "giá", "diện", "tích", "và", "trên", "dưới", "khoảng", "tầm", "gần", "ở",
}

var defaultRentalKeywords = []string{
	"tìm phòng", "tìm trọ", "tìm nhà", "tìm ở", "tìm chỗ", "tìm thuê",
	"muốn thuê", "muốn ở", "muốn tìm", "cần thuê", "cần tìm", "cần ở",
	"cho thuê", "phòng trọ", "nhà trọ", "chỗ ở", "cho ở", "ở thuê",
	"thuê phòng", "thuê trọ", "thuê nhà", "tìm người ở ghép", "ở ghép",
	"tôi muốn tìm", "tôi cần tìm", "tôi đang tìm", "có phòng nào", "có chỗ nào",
	"có nhà nào", "có trọ nào", "room", "phòng", "nhà", "chỗ ở",
	"tôi muốn", "muốn", "cần", "tìm kiếm", "tìm giúp", "giúp tìm",
	"phòng cho thuê", "nhà cho thuê", "tìm phòng trọ", "tìm nhà trọ",
	// category names
	"nhà nguyên căn", "căn hộ chung cư", "căn hộ mini",
	"nha nguyen can", "can ho chung cu", "can ho mini", "o ghep",
	// amenities
	"có gác", "có máy lạnh", "đầy đủ nội thất", "không chung chủ",
	"giờ giấc tự do", "có ban công", "có nội thất", "có an ninh",
	"có thang máy", "có kệ bếp", "có máy giặt", "có hầm để xe",
	"co gac", "co may lanh", "day du noi that", "khong chung chu",
	"gio gic tu do", "co ban cong", "co noi that", "co an ninh",
	"co thang may", "co ke bep", "co may giat", "co ham de xe",
}

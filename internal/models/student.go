package models

// StudentRecord is one extracted row. Unrecognized values are empty strings.
type StudentRecord struct {
	HoTen      string `json:"hoTen"`
	SdtZalo    string `json:"sdtZalo"`
	CCCD       string `json:"cccd"`
	TinhThanh  string `json:"tinhThanh"`
	TruongTHPT string `json:"truongThpt"`
	Email      string `json:"email"`
	NganhHoc   string `json:"nganhHoc"`
}

// StudentField describes one column of StudentRecord.
type StudentField struct {
	Key         string
	Label       string
	Description string
}

// StudentFields is the fixed column order used by the response schema and the CSV export.
var StudentFields = []StudentField{
	{Key: "hoTen", Label: "Họ & tên", Description: "Full name of the student."},
	{Key: "sdtZalo", Label: "SĐT/ Zalo", Description: "Phone number or Zalo number."},
	{Key: "cccd", Label: "Căn cước Công dân", Description: "Citizen ID number."},
	{Key: "tinhThanh", Label: "Tỉnh/ Thành phố (trước sáp nhập)", Description: "Province or City (before any mergers)."},
	{Key: "truongThpt", Label: "Tên trường THPT", Description: "Name of the high school."},
	{Key: "email", Label: "Email nhận thông tin/ kết quả xét", Description: "Email address for receiving information."},
	{Key: "nganhHoc", Label: "Ngành học xét", Description: "The major(s) the student is applying for."},
}

// StudentFieldKeys returns the JSON keys in column order.
func StudentFieldKeys() []string {
	keys := make([]string, len(StudentFields))
	for i, f := range StudentFields {
		keys[i] = f.Key
	}
	return keys
}

// Values returns the fields in StudentFields order.
func (r StudentRecord) Values() []string {
	return []string{r.HoTen, r.SdtZalo, r.CCCD, r.TinhThanh, r.TruongTHPT, r.Email, r.NganhHoc}
}

// StudentRecordFromValues is the inverse of Values. Missing trailing values stay empty.
func StudentRecordFromValues(values []string) StudentRecord {
	v := make([]string, len(StudentFields))
	copy(v, values)
	return StudentRecord{
		HoTen:      v[0],
		SdtZalo:    v[1],
		CCCD:       v[2],
		TinhThanh:  v[3],
		TruongTHPT: v[4],
		Email:      v[5],
		NganhHoc:   v[6],
	}
}

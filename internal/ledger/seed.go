package ledger

// Seed returns the built-in example table used when neither the remote
// sheet nor a local snapshot has any data.
func Seed() []Record {
	return []Record{
		{
			No:           1001,
			RequestDate:  NewDate(2024, 12, 1),
			Company:      "INFAC 일렉스",
			Department:   "개발",
			Contact:      "신동규 책임",
			CarModel:     "YB CUV PE2",
			PartNumber:   "PWA2024018",
			PartName:     "WIRE ASSY_TOUCH+NFC(LHD)",
			ShipFrom:     "천안공장",
			Quantity:     360,
			DueDate:      NewDate(2024, 12, 20),
			Requirements: "검사성적서 필수 포함",
			Remarks:      "자재 수급 중",
			Status:       StatusReceived,
		},
		{
			No:           1002,
			RequestDate:  NewDate(2024, 12, 2),
			Company:      "현대자동차",
			Department:   "선행개발",
			Contact:      "김철수 책임",
			CarModel:     "NE PE",
			PartNumber:   "HWA-2024-001",
			PartName:     "LV CABLE ASSY",
			ShipFrom:     "남양연구소",
			Quantity:     50,
			DueDate:      NewDate(2024, 12, 15),
			Requirements: "라벨링 위치 준수",
			Remarks:      "커넥터 수입 지연 (ETA 12/10)",
			Status:       StatusReceived,
		},
	}
}

package seed

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
)

type seedEvent struct {
	Title           string
	Description     string
	Address         string
	Latitude        float64
	Longitude       float64
	StartOffset     time.Duration
	RegEndOffset    time.Duration
	MaxParticipants int
	Price           int64
}

// Sample running events around Tehran. Start times are offsets from seed
// time so the events are always upcoming and registerable.
var sampleEvents = []seedEvent{
	{
		Title:           "دوی صبحگاهی پارک لاله",
		Description:     "دوی گروهی صبحگاهی در پارک لاله. مسافت 5 کیلومتر با سرعت متوسط. مناسب برای تمام سطوح.",
		Address:         "پارک لاله، خیابان کریمخان زند، تهران",
		Latitude:        35.6961,
		Longitude:       51.4231,
		StartOffset:     7 * 24 * time.Hour,
		RegEndOffset:    6 * 24 * time.Hour,
		MaxParticipants: 50,
		Price:           0,
	},
	{
		Title:           "مسابقه دو 10 کیلومتری میدان آزادی",
		Description:     "مسابقه رسمی دو 10 کیلومتری با اهدای مدال و جوایز نقدی. ثبت نام محدود.",
		Address:         "میدان آزادی، تهران",
		Latitude:        35.7219,
		Longitude:       51.3347,
		StartOffset:     12 * 24 * time.Hour,
		RegEndOffset:    10 * 24 * time.Hour,
		MaxParticipants: 200,
		Price:           150000,
	},
	{
		Title:           "دوی خانوادگی پارک ملت",
		Description:     "دوی تفریحی برای خانواده‌ها. مسافت 3 کیلومتر. کودکان زیر 12 سال رایگان.",
		Address:         "پارک ملت، خیابان ولیعصر، تهران",
		Latitude:        35.7308,
		Longitude:       51.4214,
		StartOffset:     17 * 24 * time.Hour,
		RegEndOffset:    16 * 24 * time.Hour,
		MaxParticipants: 100,
		Price:           50000,
	},
	{
		Title:           "نایت ران - دوی شبانه",
		Description:     "دوی شبانه در مسیر خیابان ولیعصر. 7 کیلومتر با نورپردازی و موزیک.",
		Address:         "میدان تجریش، خیابان ولیعصر، تهران",
		Latitude:        35.8042,
		Longitude:       51.4336,
		StartOffset:     24 * 24 * time.Hour,
		RegEndOffset:    22 * 24 * time.Hour,
		MaxParticipants: 80,
		Price:           100000,
	},
	{
		Title:           "چالش دوی کوهستان",
		Description:     "دوی چالشی در کوه‌های اطراف تهران. 15 کیلومتر با شیب. فقط برای دوندگان حرفه‌ای.",
		Address:         "دربند، شمال تهران",
		Latitude:        35.8270,
		Longitude:       51.4280,
		StartOffset:     28 * 24 * time.Hour,
		RegEndOffset:    26 * 24 * time.Hour,
		MaxParticipants: 30,
		Price:           200000,
	},
	{
		Title:           "دوی خیریه برای کودکان",
		Description:     "دوی خیریه 5 کیلومتری. تمام درآمد به کودکان نیازمند اهدا می‌شود.",
		Address:         "پارک شهر، منطقه 3، تهران",
		Latitude:        35.7197,
		Longitude:       51.4053,
		StartOffset:     33 * 24 * time.Hour,
		RegEndOffset:    31 * 24 * time.Hour,
		MaxParticipants: 150,
		Price:           75000,
	},
}

// SeedEvents inserts the sample events when the events table is empty.
func SeedEvents(db *sql.DB) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		log.Printf("❌ Seed: events count failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("ℹ️ Seed: events table already has %d rows, skipping", count)
		return
	}

	now := time.Now()
	created := 0
	for _, e := range sampleEvents {
		start := now.Add(e.StartOffset)
		_, err := db.Exec(`
			INSERT INTO events (id, title, description, address, latitude, longitude,
				start_date_time, end_date_time, registration_end, max_participants,
				price, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, NOW(), NOW())`,
			uuid.New().String(), e.Title, e.Description, e.Address, e.Latitude, e.Longitude,
			start, start, now.Add(e.RegEndOffset), e.MaxParticipants, e.Price)
		if err != nil {
			log.Printf("❌ Seed: insert event %q failed: %v", e.Title, err)
			continue
		}
		created++
	}

	log.Printf("🌱 Seed: %d sample events created", created)
}

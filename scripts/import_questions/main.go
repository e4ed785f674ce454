package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Imports quiz questions from an xlsx workbook. Each sheet becomes a
// topic, each row a pre-approved question.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_questions <file.xlsx>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Tehran",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)

		topic, err := findOrCreateTopic(db, sheetName)
		if err != nil {
			fmt.Printf("Error preparing topic %s: %v\n", sheetName, err)
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 7 { // Skip header or invalid rows
				continue
			}

			// row[0]: ID
			// row[1]: Question Text
			// row[2..5]: Options 1-4
			// row[6]: Correct Answer (Text like "گزینه ۱")

			options := []string{row[2], row[3], row[4], row[5]}

			correctOption := -1
			switch {
			case strings.Contains(row[6], "۱"):
				correctOption = 0
			case strings.Contains(row[6], "۲"):
				correctOption = 1
			case strings.Contains(row[6], "۳"):
				correctOption = 2
			case strings.Contains(row[6], "۴"):
				correctOption = 3
			default:
				fmt.Printf("Invalid correct answer indicator: %s in row %d\n", row[6], i)
				continue
			}

			optionsJSON, _ := json.Marshal(options)

			question := models.Question{
				TopicID:       topic.ID,
				Text:          row[1],
				Options:       string(optionsJSON),
				CorrectOption: correctOption,
				Status:        models.QuestionStatusApproved,
			}

			if err := db.Create(&question).Error; err != nil {
				fmt.Printf("Error creating question in row %d: %v\n", i, err)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d questions.\n", totalImported)
}

func findOrCreateTopic(db *gorm.DB, name string) (*models.Topic, error) {
	var topic models.Topic
	err := db.Where("name = ?", name).First(&topic).Error
	if err == nil {
		return &topic, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	topic = models.Topic{Name: name, IsActive: true}
	if err := db.Create(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

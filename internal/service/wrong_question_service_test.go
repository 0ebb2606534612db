package service

import (
	"fmt"
	"testing"

	"qingfeng_exam_backend/internal/model"

	"gorm.io/gorm"
)

type fakeWrongQuestionStore struct {
	entries map[string]*model.WrongQuestion // questionID -> entry
	nextID  int
}

func newFakeWrongQuestionStore() *fakeWrongQuestionStore {
	return &fakeWrongQuestionStore{entries: make(map[string]*model.WrongQuestion)}
}

func (f *fakeWrongQuestionStore) FindByUserAndQuestion(userID uint, questionID string) (*model.WrongQuestion, error) {
	if wq, ok := f.entries[questionID]; ok && wq.UserID == userID {
		return wq, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWrongQuestionStore) Create(wq *model.WrongQuestion) error {
	f.nextID++
	wq.ID = fmt.Sprintf("wq-%d", f.nextID)
	f.entries[wq.QuestionID] = wq
	return nil
}

func (f *fakeWrongQuestionStore) IncrementWrongCount(id string, paperID *string, userAnswer *string) error {
	for _, wq := range f.entries {
		if wq.ID == id {
			wq.WrongCount++
			wq.PaperID = paperID
			wq.UserAnswer = userAnswer
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestRecordCreatesThenIncrements(t *testing.T) {
	store := newFakeWrongQuestionStore()
	svc := &WrongQuestionService{Store: store}

	paperID := "paper-1"
	first := "A"
	if err := svc.Record(7, "q-1", &paperID, &first); err != nil {
		t.Fatalf("first Record: %v", err)
	}

	wq := store.entries["q-1"]
	if wq == nil || wq.WrongCount != 1 {
		t.Fatalf("after first record entry = %+v, want wrong_count 1", wq)
	}
	if wq.IsMastered {
		t.Error("new entry must start as not mastered")
	}

	// 同一题再错一次：累加计数并覆盖最近一次作答
	second := "C"
	if err := svc.Record(7, "q-1", &paperID, &second); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	if wq.WrongCount != 2 {
		t.Errorf("wrong_count = %d, want 2", wq.WrongCount)
	}
	if wq.UserAnswer == nil || *wq.UserAnswer != "C" {
		t.Errorf("user answer = %v, want latest answer C", wq.UserAnswer)
	}

	// 不同题目各自独立计数
	if err := svc.Record(7, "q-2", &paperID, nil); err != nil {
		t.Fatalf("Record q-2: %v", err)
	}
	if store.entries["q-2"].WrongCount != 1 {
		t.Errorf("q-2 wrong_count = %d, want 1", store.entries["q-2"].WrongCount)
	}
}

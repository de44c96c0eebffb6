package services

import (
	"testing"

	"learnpath-backend/internal/models"
)

func routerModInfo() *models.ModInfo {
	visible := &models.CourseModule{ID: 3, CourseID: 1, SectionNum: 1, ModName: "videoactivity", Visible: true, UserVisible: true}
	hidden := &models.CourseModule{ID: 4, CourseID: 1, SectionNum: 1, ModName: "quiz", Visible: false, UserVisible: false}
	restricted := &models.CourseModule{
		ID: 5, CourseID: 1, SectionNum: 1, ModName: "page",
		Visible: true, UserVisible: false, AvailableInfo: "Complete the previous activity first",
	}

	return &models.ModInfo{
		Course: &models.Course{ID: 1, Format: "videopath"},
		Sections: []*models.SectionInfo{
			{
				Section: &models.Section{ID: 10, CourseID: 1, Number: 1, Visible: true},
				Modules: []*models.CourseModule{visible, hidden, restricted},
			},
		},
		CMs: map[int64]*models.CourseModule{3: visible, 4: hidden, 5: restricted},
	}
}

func newDecideRouter() *ActivityRouter {
	return NewActivityRouter(NewModInfoService(nil), nil, nil, nil, nil, nil, nil, nil, "http://localhost")
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		section      string
		modType      string
		modID        string
		wantTemplate string
		wantModule   int64
		wantSection  int
	}{
		{"plain course page", "", "", "", TemplateCourseContent, 0, 0},
		{"section restriction", "2", "", "", TemplateCourseContent, 0, 2},
		{"section zero is the full page", "0", "", "", TemplateCourseContent, 0, 0},
		{"valid module pair", "", "videoactivity", "3", TemplateActivityView, 3, 0},
		{"restricted module still routes", "", "page", "5", TemplateActivityView, 5, 0},
		{"module wins over section", "2", "videoactivity", "3", TemplateActivityView, 3, 0},
		{"unknown module id degrades", "", "videoactivity", "999", TemplateCourseContent, 0, 0},
		{"type mismatch degrades", "", "quiz", "3", TemplateCourseContent, 0, 0},
		{"hidden module degrades", "", "quiz", "4", TemplateCourseContent, 0, 0},
		{"malformed id degrades", "", "videoactivity", "abc", TemplateCourseContent, 0, 0},
		{"bad pair with section falls back to it", "3", "videoactivity", "abc", TemplateCourseContent, 0, 3},
		{"non-numeric section is ignored", "abc", "", "", TemplateCourseContent, 0, 0},
	}

	router := newDecideRouter()
	mi := routerModInfo()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := router.Decide(mi, tc.section, tc.modType, tc.modID)

			if got.Template != tc.wantTemplate {
				t.Fatalf("Expected template %q, got %q", tc.wantTemplate, got.Template)
			}
			if tc.wantModule != 0 {
				if got.Module == nil || got.Module.ID != tc.wantModule {
					t.Errorf("Expected module %d, got %+v", tc.wantModule, got.Module)
				}
			} else if got.Module != nil {
				t.Errorf("Expected no module, got %d", got.Module.ID)
			}
			if got.SectionNum != tc.wantSection {
				t.Errorf("Expected section %d, got %d", tc.wantSection, got.SectionNum)
			}
		})
	}
}

func TestResolveModule(t *testing.T) {
	svc := NewModInfoService(nil)
	mi := routerModInfo()

	if cm := svc.ResolveModule(mi, "videoactivity", 3); cm == nil || cm.ID != 3 {
		t.Errorf("Expected module 3, got %+v", cm)
	}
	if cm := svc.ResolveModule(mi, "quiz", 3); cm != nil {
		t.Error("Expected nil for a type mismatch")
	}
	if cm := svc.ResolveModule(mi, "quiz", 4); cm != nil {
		t.Error("Expected nil for a hidden module")
	}
	// Restricted modules resolve so the view can show the restriction.
	if cm := svc.ResolveModule(mi, "page", 5); cm == nil {
		t.Error("Expected restricted module to resolve")
	}
}

func TestOrderedViewable(t *testing.T) {
	svc := NewModInfoService(nil)
	mi := routerModInfo()

	got := svc.OrderedViewable(mi)
	if len(got) != 1 || got[0].ID != 3 {
		ids := make([]int64, 0, len(got))
		for _, cm := range got {
			ids = append(ids, cm.ID)
		}
		t.Errorf("Expected [3], got %v", ids)
	}
}

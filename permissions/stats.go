package permissions

import (
	"context"
	"sort"

	"exitpass/db"
	"exitpass/models"
)

type TeacherView struct {
	Permissions  []models.ExitPermission `json:"permissions"`
	StudentStats []models.StudentSummary `json:"student_stats"`
}

type AdminView struct {
	Permissions      []models.ExitPermission `json:"permissions"`
	TeacherStats     []models.TeacherSummary `json:"teacher_stats"`
	TotalPermissions int                     `json:"total_permissions"`
}

// GetTeacherView returns a teacher's records, newest first, with one summary
// per distinct student ordered by most recent exit.
func GetTeacherView(ctx context.Context, teacherUsername string) (*TeacherView, error) {
	perms, err := db.ListPermissionsByTeacher(ctx, db.DB, teacherUsername)
	if err != nil {
		return nil, err
	}
	return &TeacherView{Permissions: perms, StudentStats: StudentStats(perms)}, nil
}

// GetAdminView returns every record, newest first, with per-teacher counts.
func GetAdminView(ctx context.Context) (*AdminView, error) {
	perms, err := db.ListPermissions(ctx, db.DB)
	if err != nil {
		return nil, err
	}
	return &AdminView{
		Permissions:      perms,
		TeacherStats:     TeacherStats(perms),
		TotalPermissions: len(perms),
	}, nil
}

// ListByStudent returns the records for an exact student name, newest first.
func ListByStudent(ctx context.Context, studentName string) ([]models.ExitPermission, error) {
	return db.ListPermissionsByStudent(ctx, db.DB, studentName)
}

// ListByDate returns the records for a DD-MM-YYYY date, newest first.
func ListByDate(ctx context.Context, date string) ([]models.ExitPermission, error) {
	return db.ListPermissionsByDate(ctx, db.DB, date)
}

// StudentStats groups perms by student name. Entries appear in first-seen
// order before a stable sort by LastExit descending.
func StudentStats(perms []models.ExitPermission) []models.StudentSummary {
	index := make(map[string]int)
	stats := []models.StudentSummary{}
	for _, p := range perms {
		i, ok := index[p.StudentName]
		if !ok {
			index[p.StudentName] = len(stats)
			stats = append(stats, models.StudentSummary{
				StudentName: p.StudentName,
				Count:       1,
				FirstExit:   p.Timestamp,
				LastExit:    p.Timestamp,
			})
			continue
		}
		s := &stats[i]
		s.Count++
		if p.Timestamp > s.LastExit {
			s.LastExit = p.Timestamp
		}
		if p.Timestamp < s.FirstExit {
			s.FirstExit = p.Timestamp
		}
	}
	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].LastExit > stats[b].LastExit
	})
	return stats
}

// TeacherStats groups perms by teacher username, taking the display name from
// the first record seen. Sorted by Count descending, ties keep first-seen order.
func TeacherStats(perms []models.ExitPermission) []models.TeacherSummary {
	index := make(map[string]int)
	stats := []models.TeacherSummary{}
	for _, p := range perms {
		if i, ok := index[p.TeacherUsername]; ok {
			stats[i].Count++
			continue
		}
		index[p.TeacherUsername] = len(stats)
		stats = append(stats, models.TeacherSummary{
			TeacherUsername:    p.TeacherUsername,
			TeacherDisplayName: p.TeacherDisplayName,
			Count:              1,
		})
	}
	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Count > stats[b].Count
	})
	return stats
}

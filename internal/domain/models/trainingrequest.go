// internal/domain/models/trainingrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingAnswers carries the freeform survey fields of a training request.
// The review workflow never inspects these; they are sanitized at the HTTP
// boundary and carried through unchanged.
type TrainingAnswers struct {
	GeneralSkills        string `bson:"general_skills" json:"generalSkills"`
	ToolsTraining        string `bson:"tools_training" json:"toolsTraining"`
	SoftSkills           string `bson:"soft_skills" json:"softSkills"`
	ConfidenceLevel      string `bson:"confidence_level" json:"confidenceLevel"`
	TechnicalSkills      string `bson:"technical_skills" json:"technicalSkills"`
	DataTraining         string `bson:"data_training" json:"dataTraining"`
	RoleChallenges       string `bson:"role_challenges" json:"roleChallenges"`
	EfficiencyTraining   string `bson:"efficiency_training" json:"efficiencyTraining"`
	Certifications       string `bson:"certifications" json:"certifications"`
	CareerGoals          string `bson:"career_goals" json:"careerGoals"`
	CareerTraining       string `bson:"career_training" json:"careerTraining"`
	TrainingFormat       string `bson:"training_format" json:"trainingFormat"`
	TrainingDuration     string `bson:"training_duration" json:"trainingDuration"`
	LearningPreference   string `bson:"learning_preference" json:"learningPreference"`
	PastTraining         string `bson:"past_training" json:"pastTraining"`
	PastTrainingFeedback string `bson:"past_training_feedback" json:"pastTrainingFeedback"`
	TrainingImprovement  string `bson:"training_improvement" json:"trainingImprovement"`
	AreaNeed             string `bson:"area_need" json:"areaNeed"`
	TrainingFrequency    string `bson:"training_frequency" json:"trainingFrequency"`
}

// TrainingRequest is a single training-need request moving through the
// review chain. Routing fields (Managers, HOD, RequesterDepartment) are
// snapshots taken at submission time and are never re-derived, so later
// assignment-graph edits cannot change who may review an in-flight request.
type TrainingRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestNumber string             `bson:"request_number" json:"request_number"`

	RequesterID         primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RequesterName       string             `bson:"requester_name" json:"requester_name"`
	RequesterDepartment string             `bson:"requester_department" json:"requester_department"`

	// Snapshots of the assignment graph at submission time.
	Managers []primitive.ObjectID `bson:"managers" json:"managers"`
	HOD      *primitive.ObjectID  `bson:"hod,omitempty" json:"hod,omitempty"`

	Status string `bson:"status" json:"status"`

	// Each reviewed-by pair is set at most once, on the first decision
	// that resolves the corresponding stage.
	ReviewedByManager   *primitive.ObjectID `bson:"reviewed_by_manager,omitempty" json:"reviewed_by_manager,omitempty"`
	ReviewedByManagerAt *time.Time          `bson:"reviewed_by_manager_at,omitempty" json:"reviewed_by_manager_at,omitempty"`
	ReviewedByHOD       *primitive.ObjectID `bson:"reviewed_by_hod,omitempty" json:"reviewed_by_hod,omitempty"`
	ReviewedByHODAt     *time.Time          `bson:"reviewed_by_hod_at,omitempty" json:"reviewed_by_hod_at,omitempty"`
	ReviewedByAdmin     *primitive.ObjectID `bson:"reviewed_by_admin,omitempty" json:"reviewed_by_admin,omitempty"`
	ReviewedByAdminAt   *time.Time          `bson:"reviewed_by_admin_at,omitempty" json:"reviewed_by_admin_at,omitempty"`

	Answers TrainingAnswers `bson:"answers" json:"answers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

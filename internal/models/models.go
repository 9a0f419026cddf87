package models

// All lists every model persisted by relay, in migration order.
var All = []interface{}{
	&User{},
	&Project{},
	&ProjectMember{},
	&Trigger{},
	&Pipeline{},
	&TriggerRequest{},
	&Job{},
	&JobDefinition{},
	&PipelineSchedule{},
}

package outbox

const planGeneratedSchema = `{
  "type": "object",
  "title": "PlanGenerated",
  "properties": {
    "user_id": {"type": "string"},
    "date_key": {"type": "string"},
    "pattern_id": {"type": "string"},
    "theme": {"type": "string"},
    "item_count": {"type": "integer"},
    "provider": {"type": "string"},
    "model": {"type": "string"},
    "created_at": {"type": "integer"}
  },
  "required": ["user_id", "date_key", "pattern_id", "theme", "item_count", "created_at"],
  "additionalProperties": false
}`

const workoutLoggedSchema = `{
  "type": "object",
  "title": "WorkoutLogged",
  "properties": {
    "user_id": {"type": "string"},
    "date_key": {"type": "string"},
    "pattern_id": {"type": "string"},
    "item_count": {"type": "integer"},
    "done_count": {"type": "integer"},
    "completed": {"type": "boolean"},
    "updated_at": {"type": "integer"}
  },
  "required": ["user_id", "date_key", "pattern_id", "item_count", "done_count", "completed", "updated_at"],
  "additionalProperties": false
}`

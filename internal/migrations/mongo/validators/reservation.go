package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	clockPattern = `^([01]\d|2[0-3]):[0-5]\d$`
)

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"room_id",
			"guest_name",
			"date",
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"room_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
	// start_time < end_time; HH:MM strings compare chronologically.
	"$expr": bson.M{"$lt": bson.A{"$start_time", "$end_time"}},
}

var SlotGuardValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "version", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"room_id": bson.M{
				"bsonType": []string{"int", "long"},
			},
			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},
			"version": bson.M{
				"bsonType": []string{"int", "long"},
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

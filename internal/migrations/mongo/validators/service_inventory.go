package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceInventoryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"price": bson.M{
				"bsonType": "object",
				"required": []string{"amount", "currency"},
				"properties": bson.M{
					"amount": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"currency": bson.M{
						"bsonType":  "string",
						"minLength": 3,
						"maxLength": 3,
					},
				},
			},

			"duration_minutes": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  1440,
			},

			// Slot keys are HH:MM times of day. An empty or missing map means
			// the service runs on the configured default grid.
			"slot_capacity": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": bson.A{"int", "long"},
					"minimum":  0,
				},
			},

			// Outer keys are YYYY-MM-DD dates, inner keys HH:MM slots.
			"booked_by_date_time": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"additionalProperties": bson.M{
						"bsonType": bson.A{"int", "long"},
						"minimum":  0,
					},
				},
			},
		},
	},
}

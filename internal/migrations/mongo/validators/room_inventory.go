package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomInventoryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"price_per_night",
			"daily_capacity",
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

			"price_per_night": bson.M{
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

			"daily_capacity": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  10000,
			},

			// Night keys map YYYY-MM-DD to the booked count; the count can
			// never go below zero.
			"booked_by_date": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": bson.A{"int", "long"},
					"minimum":  0,
				},
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"check_in",
			"check_out",
			"status",
			"currency",
			"total_price",
			"created_at",
			"rooms",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
				},
			},

			"currency": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
			},

			"total_price": bson.M{
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

			"created_at": bson.M{
				"bsonType": "date",
			},

			"rooms": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"room_id", "quantity", "nights"},
					"properties": bson.M{
						"room_id": bson.M{
							"bsonType": "string",
						},
						"quantity": bson.M{
							"bsonType": "int",
							"minimum":  1,
						},
						"nights": bson.M{
							"bsonType": "int",
							"minimum":  1,
						},
					},
				},
			},

			"services": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"service_id", "quantity", "scheduled_at"},
					"properties": bson.M{
						"service_id": bson.M{
							"bsonType": "string",
						},
						"quantity": bson.M{
							"bsonType": "int",
							"minimum":  1,
						},
						"scheduled_at": bson.M{
							"bsonType": "date",
						},
					},
				},
			},
		},
	},
}

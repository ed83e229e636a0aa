package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"destination",
			"capacity",
			"nightly_rate",
			"active",
			"available",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"nightly_rate": bson.M{
				"bsonType":         []string{"double", "int", "decimal"},
				"minimum":          0,
				"exclusiveMinimum": true,
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"available": bson.M{
				"bsonType": "bool",
			},

			"booked_intervals": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"check_in", "check_out", "booking_id"},
					"properties": bson.M{
						"check_in": bson.M{
							"bsonType": "date",
						},
						"check_out": bson.M{
							"bsonType": "date",
						},
						"booking_id": bson.M{
							"bsonType":  "string",
							"minLength": 24,
							"maxLength": 24,
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_id",
			"user_id",
			"check_in",
			"check_out",
			"guest_count",
			"guest_name",
			"guest_email",
			"total_amount",
			"confirmation_code",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"guest_count": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"guest_email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"guest_phone": bson.M{
				"bsonType":  "string",
				"maxLength": 20,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "decimal"},
				"minimum":  0,
			},

			"confirmation_code": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 30,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"confirmed",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

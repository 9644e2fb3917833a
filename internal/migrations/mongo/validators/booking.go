package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"spot_id",
			"renter_id",
			"vehicle_id",
			"date",
			"start_time",
			"end_time",
			"status",
			"amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"code": bson.M{
				"bsonType": "string",
				"pattern":  "^PSB-[A-Z2-9]{8}$",
			},

			"spot_id": bson.M{
				"bsonType": "string",
			},

			"renter_id": bson.M{
				"bsonType": "string",
			},

			"vehicle_id": bson.M{
				"bsonType": "string",
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^(([01][0-9]|2[0-3]):[0-5][0-9]|24:00)$",
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed"},
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"qr_code": bson.M{
				"bsonType": "string",
			},
		},
	},
}
